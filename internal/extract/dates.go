package extract

import (
	"regexp"
	"strconv"
	"time"
)

var reDateToken = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)

// coerceISODate returns s as YYYY-MM-DD, converting slash/dash dates and
// defaulting to today (UTC) when the value is absent or unparseable.
func coerceISODate(s string, now time.Time) string {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02")
	}
	if t, ok := parseDateToken(s); ok {
		return t.Format("2006-01-02")
	}
	return now.UTC().Format("2006-01-02")
}

// parseDateToken parses the first d/m/y or m/d/y style token in s. When the
// first component exceeds 12 it must be the day; otherwise month-first is
// assumed with a day-first retry.
func parseDateToken(s string) (time.Time, bool) {
	m := reDateToken.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	day, month := a, b
	if a <= 12 && b <= 12 {
		// ambiguous: assume month-first
		month, day = a, b
	} else if a <= 12 && b > 12 {
		month, day = a, b
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// reject overflow normalization like Feb 30 -> Mar 2
	if int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
