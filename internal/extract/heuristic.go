package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/warrantyvault/warranty-tracker/internal/receipt"
)

var reDollarAmount = regexp.MustCompile(`\$\s*(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`)

// HeuristicParser is the last-resort structuring strategy. It never fails:
// whatever the text looks like, it produces a single-product record the user
// can correct by hand.
type HeuristicParser struct {
	now func() time.Time
}

// NewHeuristicParser builds the fallback strategy.
func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{now: time.Now}
}

func (h *HeuristicParser) Name() string { return "heuristic" }

// Structure applies line/regex heuristics: first non-empty line is the store
// name, the last dollar amount is the total, the first date-like token is
// the purchase date (today when absent). Warranty defaults to "1 year" and
// country to "United States".
func (h *HeuristicParser) Structure(_ context.Context, rawText string) (receipt.Receipt, error) {
	r := receipt.Receipt{
		StoreName:      "Unknown Store",
		WarrantyPeriod: "1 year",
		Country:        "United States",
	}

	for _, line := range strings.Split(rawText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			r.StoreName = trimmed
			break
		}
	}

	if matches := reDollarAmount.FindAllStringSubmatch(rawText, -1); len(matches) > 0 {
		last := matches[len(matches)-1][1]
		last = strings.ReplaceAll(last, ",", "")
		if v, err := strconv.ParseFloat(last, 64); err == nil {
			r.Amount = v
			r.TotalAmount = v
		}
	}

	if t, ok := parseDateToken(rawText); ok {
		r.PurchaseDate = t.Format("2006-01-02")
	} else {
		r.PurchaseDate = h.now().UTC().Format("2006-01-02")
	}

	// a rough description: first line after the store that mentions a price
	for _, line := range strings.Split(rawText, "\n")[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !reDollarAmount.MatchString(trimmed) {
			continue
		}
		if strings.Contains(strings.ToLower(trimmed), "total") {
			continue
		}
		desc := reDollarAmount.ReplaceAllString(trimmed, "")
		desc = strings.Trim(strings.TrimSpace(desc), "-–: ")
		if desc != "" {
			r.ProductDescription = desc
			break
		}
	}

	return r, nil
}
