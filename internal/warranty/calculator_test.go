package warranty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestExpiry(t *testing.T) {
	tests := []struct {
		name     string
		purchase string
		period   string
		want     string
	}{
		{"two years", "2023-01-15", "2 years", "2025-01-15"},
		{"single year", "2023-01-15", "1 year", "2024-01-15"},
		{"empty defaults to one year", "2023-06-01", "", "2024-06-01"},
		{"unparseable defaults to one year", "2023-06-01", "manufacturer standard", "2024-06-01"},
		{"eighteen months", "2023-01-15", "18 months", "2024-07-15"},
		{"ninety days", "2023-01-15", "90 days", "2023-04-15"},
		{"case insensitive", "2023-01-15", "3 YEARS", "2026-01-15"},
		{"years win over months", "2023-01-15", "1 year 6 months", "2024-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, date(tt.want), Expiry(date(tt.purchase), tt.period))
		})
	}
}

func TestExpiryLifetime(t *testing.T) {
	want := time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, Expiry(date("2023-01-15"), "lifetime"))
	assert.Equal(t, want, Expiry(date("2023-01-15"), "Lifetime warranty"))
}

func TestComputeUrgency(t *testing.T) {
	now := date("2024-06-01")
	tests := []struct {
		name     string
		purchase string
		period   string
		daysLeft int
		urgency  Urgency
	}{
		{"expired", "2022-01-01", "1 year", -517, UrgencyExpired},
		{"high within 30", "2023-06-20", "1 year", 19, UrgencyHigh},
		{"medium within 90", "2023-08-15", "1 year", 75, UrgencyMedium},
		{"low", "2024-05-01", "2 years", 699, UrgencyLow},
		{"boundary zero days", "2023-06-01", "1 year", 0, UrgencyHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := Compute(date(tt.purchase), tt.period, now)
			assert.Equal(t, tt.daysLeft, item.DaysLeft)
			assert.Equal(t, tt.urgency, item.Urgency)
		})
	}
}

func TestDefaultPeriod(t *testing.T) {
	// every category family resolves to the same default today
	tests := []struct {
		description string
		brand       string
	}{
		{"PlayStation 5 Slim", "Sony"},
		{"MacBook Pro 14", "Apple"},
		{"Mini 4 Pro drone", "DJI"},
		{"65 inch OLED TV", "LG"},
		{"garden hose", "Generic"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, "1 year", DefaultPeriod(tt.description, tt.brand))
		})
	}
}
