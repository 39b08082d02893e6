// Package dedupe scores a freshly extracted receipt against the caller's
// recent receipts to catch double submissions before they are saved.
package dedupe

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/warrantyvault/warranty-tracker/internal/receipt"
	"github.com/warrantyvault/warranty-tracker/internal/similarity"
)

// Threshold is the score a candidate must exceed to count as a duplicate.
const Threshold = 0.6

// windowDays bounds candidate retrieval to purchase dates near the new
// receipt's.
const windowDays = 3

// amountTolerance treats amounts within a cent as equal.
const amountTolerance = 0.01

// Candidate is one previously saved receipt considered for matching.
type Candidate struct {
	ID   uuid.UUID
	Data receipt.Receipt
}

// CandidateSource retrieves a user's receipts in a purchase-date window,
// optionally narrowed by store name.
type CandidateSource interface {
	Candidates(ctx context.Context, userID uuid.UUID, start, end time.Time, storeName string) ([]Candidate, error)
}

// Match is one candidate that scored above the threshold.
type Match struct {
	ReceiptID uuid.UUID       `json:"receipt_id"`
	Score     float64         `json:"score"`
	Reasons   []string        `json:"reasons"`
	Existing  receipt.Receipt `json:"existing"`
}

// Outcome is the result of a duplicate check. Confidence is the best
// match's score, zero when there is none.
type Outcome struct {
	IsDuplicate bool    `json:"is_duplicate"`
	Matches     []Match `json:"matches,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// Detector compares new receipts against stored candidates.
type Detector struct {
	source CandidateSource
	logger *slog.Logger
}

// NewDetector builds a detector over the given candidate source.
func NewDetector(source CandidateSource, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{source: source, logger: logger}
}

// Check scores the new receipt against candidates purchased within ±3 days.
// A failing candidate query fails open: an availability problem here must
// never block a legitimate save.
func (d *Detector) Check(ctx context.Context, userID uuid.UUID, newData receipt.Receipt) Outcome {
	date, err := time.Parse("2006-01-02", newData.PurchaseDate)
	if err != nil {
		d.logger.Warn("dedupe.bad_date", "date", newData.PurchaseDate, "error", err)
		return Outcome{}
	}

	start := date.AddDate(0, 0, -windowDays)
	end := date.AddDate(0, 0, windowDays)
	candidates, err := d.source.Candidates(ctx, userID, start, end, newData.StoreName)
	if err != nil {
		d.logger.Warn("dedupe.query_failed", "user_id", userID, "error", err)
		return Outcome{}
	}
	if len(candidates) == 0 {
		return Outcome{}
	}

	var matches []Match
	for _, c := range candidates {
		score, reasons := scoreCandidate(newData, c.Data)
		if score > Threshold {
			matches = append(matches, Match{ReceiptID: c.ID, Score: score, Reasons: reasons, Existing: c.Data})
		}
	}
	if len(matches) == 0 {
		return Outcome{}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	out := Outcome{IsDuplicate: true, Matches: matches, Confidence: matches[0].Score}
	d.logger.Info("dedupe.hit", "user_id", userID, "matches", len(matches), "confidence", out.Confidence)
	return out
}

// scoreCandidate weighs field agreement between the new receipt and one
// existing receipt. Weights sum to 1.0 in both shapes.
func scoreCandidate(newData, existing receipt.Receipt) (float64, []string) {
	if newData.IsMultiProduct() {
		return scoreMulti(newData, existing)
	}
	return scoreSingle(newData, existing)
}

func scoreSingle(newData, existing receipt.Receipt) (float64, []string) {
	var score float64
	var reasons []string

	if similarity.IsSimilar(newData.StoreName, existing.StoreName) {
		score += 0.25
		reasons = append(reasons, "store name matches")
	}
	if newData.PurchaseDate == existing.PurchaseDate {
		score += 0.20
		reasons = append(reasons, "same purchase date")
	}
	if similarity.IsSimilar(newData.ProductDescription, existing.ProductDescription) {
		score += 0.25
		reasons = append(reasons, "similar product description")
	}
	if similarity.IsSimilar(newData.BrandName, existing.BrandName) {
		score += 0.15
		reasons = append(reasons, "similar brand")
	}
	if math.Abs(newData.Amount-existing.Amount) <= amountTolerance {
		score += 0.10
		reasons = append(reasons, "amount matches")
	}
	if similarity.IsSimilar(newData.ModelNumber, existing.ModelNumber) {
		score += 0.05
		reasons = append(reasons, "model number matches")
	}
	return score, reasons
}

func scoreMulti(newData, existing receipt.Receipt) (float64, []string) {
	var score float64
	var reasons []string

	if similarity.IsSimilar(newData.StoreName, existing.StoreName) {
		score += 0.30
		reasons = append(reasons, "store name matches")
	}
	if newData.PurchaseDate == existing.PurchaseDate {
		score += 0.25
		reasons = append(reasons, "same purchase date")
	}
	if math.Abs(newData.TotalAmount-existing.TotalAmount) <= amountTolerance {
		score += 0.20
		reasons = append(reasons, "total amount matches")
	}
	// first hit wins, no double counting across products
	if anyProductOverlap(newData, existing) {
		score += 0.25
		reasons = append(reasons, "similar product description")
	}
	return score, reasons
}

func anyProductOverlap(newData, existing receipt.Receipt) bool {
	existingDescs := []string{existing.ProductDescription}
	if existing.IsMultiProduct() {
		existingDescs = existingDescs[:0]
		for _, p := range existing.Products {
			existingDescs = append(existingDescs, p.ProductDescription)
		}
	}
	for _, p := range newData.Products {
		for _, desc := range existingDescs {
			if similarity.IsSimilar(p.ProductDescription, desc) {
				return true
			}
		}
	}
	return false
}
