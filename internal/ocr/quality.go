package ocr

import (
	"strings"
	"unicode"
)

// Tier classifies OCR output quality for the capture UI.
type Tier string

const (
	TierPoor      Tier = "poor"
	TierGood      Tier = "good"
	TierExcellent Tier = "excellent"
)

// Assessment is the quality verdict plus retake/improvement suggestions.
type Assessment struct {
	Tier        Tier     `json:"tier"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// AssessQuality grades an OCR result. Confidence tiers: <30 poor, 30-60
// good, >=60 excellent. Independent of confidence, text that lacks both an
// alphabetic run of 3+ chars and any currency-like numeric token, is under
// 20 characters, or is over 30% line noise is downgraded to poor — a receipt
// must contain some textual or monetary content.
func AssessQuality(res Result) Assessment {
	var a Assessment
	switch {
	case res.Confidence < 30:
		a.Tier = TierPoor
		a.Suggestions = append(a.Suggestions,
			"retake the photo in better lighting",
			"hold the camera steady and fill the frame with the receipt",
		)
	case res.Confidence < 60:
		a.Tier = TierGood
		a.Suggestions = append(a.Suggestions,
			"flatten the receipt and avoid shadows for a sharper scan",
		)
	default:
		a.Tier = TierExcellent
	}

	if degraded, why := contentDegraded(res.Text); degraded {
		a.Tier = TierPoor
		a.Suggestions = append(a.Suggestions, why)
	}
	return a
}

func contentDegraded(text string) (bool, string) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 20 {
		return true, "too little text was detected; retake the photo closer to the receipt"
	}
	if !hasAlphaRun(trimmed, 3) && !hasAmountPattern(strings.ToLower(trimmed)) {
		return true, "no readable words or amounts were detected"
	}
	if noiseRatio(trimmed) > 0.3 {
		return true, "the scan contains mostly unreadable characters"
	}
	return false, ""
}

// hasAlphaRun reports whether the text contains a run of n+ letters.
func hasAlphaRun(s string, n int) bool {
	run := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// noiseRatio is the fraction of characters that are neither alphanumeric,
// whitespace, currency symbols, nor common receipt punctuation.
func noiseRatio(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	var noise, total float64
	for _, r := range s {
		total++
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
		case strings.ContainsRune("$£€¥₹.,:-/#%()*", r):
		default:
			noise++
		}
	}
	return noise / total
}
