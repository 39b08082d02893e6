package dedupe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warrantyvault/warranty-tracker/internal/receipt"
)

type fakeSource struct {
	candidates []Candidate
	err        error
	gotStart   time.Time
	gotEnd     time.Time
}

func (f *fakeSource) Candidates(_ context.Context, _ uuid.UUID, start, end time.Time, _ string) ([]Candidate, error) {
	f.gotStart, f.gotEnd = start, end
	return f.candidates, f.err
}

func singleReceipt() receipt.Receipt {
	return receipt.Receipt{
		StoreName:          "JB Hi-Fi",
		PurchaseDate:       "2024-01-15",
		TotalAmount:        349.00,
		ProductDescription: "Sony WH-1000XM5 Headphones",
		BrandName:          "Sony",
		ModelNumber:        "WH-1000XM5",
		Amount:             349.00,
	}
}

func multiReceipt() receipt.Receipt {
	return receipt.Receipt{
		StoreName:    "JB Hi-Fi",
		PurchaseDate: "2024-02-20",
		TotalAmount:  909.90,
		Products: []receipt.Product{
			{ProductDescription: "PlayStation 5 Console", Amount: 799.95},
			{ProductDescription: "DualSense Controller", Amount: 109.95},
		},
	}
}

func TestCheckIdenticalSingleScoresOne(t *testing.T) {
	r := singleReceipt()
	src := &fakeSource{candidates: []Candidate{{ID: uuid.New(), Data: r}}}
	d := NewDetector(src, nil)

	out := d.Check(context.Background(), uuid.New(), r)

	require.True(t, out.IsDuplicate)
	require.Len(t, out.Matches, 1)
	assert.InDelta(t, 1.0, out.Confidence, 1e-9)
	assert.ElementsMatch(t, []string{
		"store name matches",
		"same purchase date",
		"similar product description",
		"similar brand",
		"amount matches",
		"model number matches",
	}, out.Matches[0].Reasons)
}

func TestCheckIdenticalMultiScoresOne(t *testing.T) {
	r := multiReceipt()
	src := &fakeSource{candidates: []Candidate{{ID: uuid.New(), Data: r}}}
	d := NewDetector(src, nil)

	out := d.Check(context.Background(), uuid.New(), r)

	require.True(t, out.IsDuplicate)
	assert.InDelta(t, 1.0, out.Confidence, 1e-9)
	assert.ElementsMatch(t, []string{
		"store name matches",
		"same purchase date",
		"total amount matches",
		"similar product description",
	}, out.Matches[0].Reasons)
}

func TestCheckPartialAgreement(t *testing.T) {
	existing := singleReceipt()
	existing.ProductDescription = "Completely Different Projector"
	existing.BrandName = "Epson"
	existing.ModelNumber = "EH-TW7100"
	existing.Amount = 2199.00

	src := &fakeSource{candidates: []Candidate{{ID: uuid.New(), Data: existing}}}
	d := NewDetector(src, nil)

	// only store (0.25) and date (0.20) agree: below the 0.6 threshold
	out := d.Check(context.Background(), uuid.New(), singleReceipt())
	assert.False(t, out.IsDuplicate)
	assert.Empty(t, out.Matches)
	assert.Zero(t, out.Confidence)
}

func TestCheckJustAboveThreshold(t *testing.T) {
	existing := singleReceipt()
	existing.BrandName = "Bose"
	existing.ModelNumber = "QC45"
	existing.Amount = 499.00

	src := &fakeSource{candidates: []Candidate{{ID: uuid.New(), Data: existing}}}
	d := NewDetector(src, nil)

	// store 0.25 + date 0.20 + description 0.25 = 0.70
	out := d.Check(context.Background(), uuid.New(), singleReceipt())
	require.True(t, out.IsDuplicate)
	assert.InDelta(t, 0.70, out.Confidence, 1e-9)
}

func TestCheckSortsMatchesDescending(t *testing.T) {
	exact := singleReceipt()
	near := singleReceipt()
	near.BrandName = "Bose"
	near.ModelNumber = "QC45"
	near.Amount = 499.00

	src := &fakeSource{candidates: []Candidate{
		{ID: uuid.New(), Data: near},
		{ID: uuid.New(), Data: exact},
	}}
	d := NewDetector(src, nil)

	out := d.Check(context.Background(), uuid.New(), singleReceipt())
	require.Len(t, out.Matches, 2)
	assert.Greater(t, out.Matches[0].Score, out.Matches[1].Score)
	assert.Equal(t, out.Matches[0].Score, out.Confidence)
}

func TestCheckQueryWindow(t *testing.T) {
	src := &fakeSource{}
	d := NewDetector(src, nil)

	d.Check(context.Background(), uuid.New(), singleReceipt())

	assert.Equal(t, "2024-01-12", src.gotStart.Format("2006-01-02"))
	assert.Equal(t, "2024-01-18", src.gotEnd.Format("2006-01-02"))
}

func TestCheckFailsOpenOnQueryError(t *testing.T) {
	src := &fakeSource{err: errors.New("connection reset")}
	d := NewDetector(src, nil)

	out := d.Check(context.Background(), uuid.New(), singleReceipt())

	assert.False(t, out.IsDuplicate)
	assert.Empty(t, out.Matches)
}

func TestCheckFailsOpenOnBadDate(t *testing.T) {
	r := singleReceipt()
	r.PurchaseDate = "last tuesday"
	d := NewDetector(&fakeSource{}, nil)

	out := d.Check(context.Background(), uuid.New(), r)
	assert.False(t, out.IsDuplicate)
}
