package validate

import (
	"regexp"
	"strings"
)

// Model responses are free text: prose, markdown bold, citation markers.
// The cleaners below recover a canonical value with ordered heuristics and
// fall back to the original when nothing usable is found.

var (
	reCitation  = regexp.MustCompile(`\[\d+\]`)
	reBold      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	rePeriod    = regexp.MustCompile(`(?i)(\d+)\s*(year|month|day|week)s?`)
	reShouldBe  = regexp.MustCompile(`(?i)should be:?\s*(.+)`)
	reTherefore = regexp.MustCompile(`(?i)therefore,?\s+the\s+corrected[^:\n]*:\s*(.+)`)
)

const maxAnswerLen = 50

// cleanStoreName extracts a canonical retailer name. Order: a "should be:"
// phrase, a "Therefore, the corrected ...:" phrase, bold-marked text, then
// the first short line that is not explanatory prose.
func cleanStoreName(response, original string) string {
	s := stripMarkers(response)
	if s == "" {
		return original
	}
	if m := reShouldBe.FindStringSubmatch(s); m != nil {
		if v := tidyValue(firstLine(m[1])); v != "" {
			return v
		}
	}
	if m := reTherefore.FindStringSubmatch(s); m != nil {
		if v := tidyValue(firstLine(m[1])); v != "" {
			return v
		}
	}
	if m := reBold.FindStringSubmatch(response); m != nil {
		if v := tidyValue(m[1]); v != "" {
			return v
		}
	}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) >= maxAnswerLen {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "format") ||
			strings.Contains(lower, "corrected") ||
			strings.Contains(lower, "therefore") {
			continue
		}
		return tidyValue(line)
	}
	return original
}

// cleanWarrantyPeriod normalizes a warranty answer to "<n> <unit>[s]". When
// no duration pattern is present it falls back to the first short sentence,
// then to a truncated prefix.
func cleanWarrantyPeriod(response, original string) string {
	s := stripMarkers(response)
	if s == "" {
		return original
	}
	if m := rePeriod.FindStringSubmatch(s); m != nil {
		unit := strings.ToLower(m[2])
		if m[1] == "1" {
			return "1 " + unit
		}
		return m[1] + " " + unit + "s"
	}
	if sent := firstSentence(s); sent != "" && len(sent) <= maxAnswerLen {
		return tidyValue(sent)
	}
	if len(s) > maxAnswerLen {
		s = s[:maxAnswerLen]
	}
	if v := tidyValue(s); v != "" {
		return v
	}
	return original
}

// cleanFieldValue handles description and brand answers: bold-marked text
// wins, otherwise the first line of the response.
func cleanFieldValue(response, original string) string {
	s := stripMarkers(response)
	if s == "" {
		return original
	}
	if m := reBold.FindStringSubmatch(response); m != nil {
		if v := tidyValue(m[1]); v != "" {
			return v
		}
	}
	if v := tidyValue(firstLine(s)); v != "" {
		return v
	}
	return original
}

func stripMarkers(s string) string {
	return strings.TrimSpace(reCitation.ReplaceAllString(s, ""))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func firstSentence(s string) string {
	s = firstLine(s)
	if i := strings.IndexAny(s, ".!?"); i >= 0 {
		return s[:i]
	}
	return s
}

func tidyValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `*"'`)
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}
