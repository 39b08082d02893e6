// Package warranty derives expiry dates and urgency tiers from a purchase
// date and a free-text warranty period. Items are never persisted; they are
// recomputed on every read so they cannot go stale.
package warranty

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Urgency buckets the remaining warranty time.
type Urgency string

const (
	UrgencyExpired Urgency = "expired"
	UrgencyHigh    Urgency = "high"   // 30 days or less
	UrgencyMedium  Urgency = "medium" // 90 days or less
	UrgencyLow     Urgency = "low"
)

// Item is the derived warranty view of one product.
type Item struct {
	PurchaseDate time.Time `json:"purchase_date"`
	ExpiryDate   time.Time `json:"expiry_date"`
	DaysLeft     int       `json:"days_left"`
	Urgency      Urgency   `json:"urgency"`
}

// lifetimeExpiry is the fixed far-future date for "lifetime" warranties.
var lifetimeExpiry = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)

var (
	reYears  = regexp.MustCompile(`(?i)(\d+)\s*year`)
	reMonths = regexp.MustCompile(`(?i)(\d+)\s*month`)
	reDays   = regexp.MustCompile(`(?i)(\d+)\s*day`)
)

// Expiry computes the warranty expiry date. Parsing order, first match wins:
// "lifetime", N years, N months, N days. Empty or unparseable text defaults
// to one year.
func Expiry(purchaseDate time.Time, period string) time.Time {
	p := strings.TrimSpace(period)
	if strings.Contains(strings.ToLower(p), "lifetime") {
		return lifetimeExpiry
	}
	if m := reYears.FindStringSubmatch(p); m != nil {
		n, _ := strconv.Atoi(m[1])
		return purchaseDate.AddDate(n, 0, 0)
	}
	if m := reMonths.FindStringSubmatch(p); m != nil {
		n, _ := strconv.Atoi(m[1])
		return purchaseDate.AddDate(0, n, 0)
	}
	if m := reDays.FindStringSubmatch(p); m != nil {
		n, _ := strconv.Atoi(m[1])
		return purchaseDate.AddDate(0, 0, n)
	}
	return purchaseDate.AddDate(1, 0, 0)
}

// Compute derives the full warranty item relative to now.
func Compute(purchaseDate time.Time, period string, now time.Time) Item {
	expiry := Expiry(purchaseDate, period)
	daysLeft := int(math.Ceil(expiry.Sub(now).Hours() / 24))
	return Item{
		PurchaseDate: purchaseDate,
		ExpiryDate:   expiry,
		DaysLeft:     daysLeft,
		Urgency:      urgencyFor(daysLeft),
	}
}

func urgencyFor(daysLeft int) Urgency {
	switch {
	case daysLeft < 0:
		return UrgencyExpired
	case daysLeft <= 30:
		return UrgencyHigh
	case daysLeft <= 90:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// Category keyword families for the blank-period default. Every family maps
// to the same one-year default today; the families are kept separate because
// per-category defaults are expected to diverge.
var categoryFamilies = [][]string{
	{"playstation", "xbox", "nintendo", "console", "steam deck"},
	{"laptop", "computer", "macbook", "imac", "desktop", "ipad", "tablet", "monitor"},
	{"drone", "camera", "gopro", "dji", "lens"},
	{"tv", "television", "phone", "iphone", "headphone", "speaker", "soundbar", "electronic"},
}

// DefaultPeriod infers a warranty period for products stored without one by
// inspecting the description and brand for category keywords. All recognized
// families currently resolve to "1 year", as does the unrecognized case.
func DefaultPeriod(description, brand string) string {
	haystack := strings.ToLower(description + " " + brand)
	for _, family := range categoryFamilies {
		for _, kw := range family {
			if strings.Contains(haystack, kw) {
				return "1 year"
			}
		}
	}
	return "1 year"
}
