package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStoreName(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			"should be phrase",
			"The corrected store name should be: **JB Hi-Fi**",
			"JB Hi-Fi",
		},
		{
			"therefore phrase",
			"Looking at this, the name is wrong.\nTherefore, the corrected store name is: Harvey Norman",
			"Harvey Norman",
		},
		{
			"bold text",
			"The canonical name is **The Good Guys** as listed on their site.",
			"The Good Guys",
		},
		{
			"first short line",
			"Officeworks\nThat is the full legal trading name.",
			"Officeworks",
		},
		{
			"skips explanatory line",
			"The corrected name format is shown below\nBunnings",
			"Bunnings",
		},
		{
			"citation markers stripped",
			"JB Hi-Fi[1]",
			"JB Hi-Fi",
		},
		{
			"nothing usable keeps original",
			strings.Repeat("an unhelpfully long explanatory response ", 3),
			"orig",
		},
		{
			"empty keeps original",
			"   ",
			"orig",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanStoreName(tt.response, "orig"))
		})
	}
}

func TestCleanWarrantyPeriod(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"plural months", "The warranty is 24 months[1] from purchase.", "24 months"},
		{"singular normalized", "1 Year manufacturer warranty", "1 year"},
		{"weeks", "Covered for 4 weeks.", "4 weeks"},
		{"days", "Return within 30 day window", "30 days"},
		{"no pattern falls to sentence", "Standard consumer guarantee applies. See the ACL.", "Standard consumer guarantee applies"},
		{"empty keeps original", "", "1 year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanWarrantyPeriod(tt.response, "1 year"))
		})
	}
}

func TestCleanWarrantyPeriodTruncatesLongProse(t *testing.T) {
	long := strings.Repeat("warranty terms vary by product category always ", 4)
	got := cleanWarrantyPeriod(long, "orig")
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), maxAnswerLen)
}

func TestCleanFieldValue(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"bold wins", "The product is **Sony WH-1000XM5** in black.", "Sony WH-1000XM5"},
		{"first line", "Apple iPhone 15 Pro\nFlagship smartphone released in 2023.", "Apple iPhone 15 Pro"},
		{"quotes trimmed", `"Dyson V15 Detect"`, "Dyson V15 Detect"},
		{"empty keeps original", "\n\n", "orig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanFieldValue(tt.response, "orig"))
		})
	}
}
