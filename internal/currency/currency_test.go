package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		country string
		code    string
	}{
		{"United States", "USD"},
		{"usa", "USD"},
		{"UAE", "AED"},
		{"United Kingdom", "GBP"},
		{"GB", "GBP"},
		{"Canada", "CAD"},
		{"Australia", "AUD"},
		{"Germany", "EUR"},
		{"France", "EUR"},
		{"Japan", "JPY"},
		{"India", "INR"},
		{"China", "CNY"},
		{"  australia  ", "AUD"},
	}
	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			info, ok := Lookup(tt.country)
			require.True(t, ok)
			assert.Equal(t, tt.code, info.Code)
			assert.NotEmpty(t, info.Name)
			assert.NotEmpty(t, info.Symbol)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("Atlantis")
	assert.False(t, ok)
	_, ok = Lookup("")
	assert.False(t, ok)
}
