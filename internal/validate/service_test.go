package validate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warrantyvault/warranty-tracker/internal/receipt"
)

// scriptedCompleter routes prompts to canned answers by keyword and can be
// told to fail specific prompt kinds. Safe for concurrent use.
type scriptedCompleter struct {
	mu        sync.Mutex
	calls     int
	responses map[string]string // prompt substring -> response
	failOn    string            // prompt substring that errors
}

func (c *scriptedCompleter) Complete(_ context.Context, _, user string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.failOn != "" && strings.Contains(user, c.failOn) {
		return "", errors.New("upstream timeout")
	}
	for key, resp := range c.responses {
		if strings.Contains(user, key) {
			return resp, nil
		}
	}
	return "", errors.New("no script for prompt")
}

func (c *scriptedCompleter) Configured() bool { return true }

func (c *scriptedCompleter) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type unconfiguredCompleter struct{}

func (unconfiguredCompleter) Complete(context.Context, string, string) (string, error) {
	return "", errors.New("should not be called")
}
func (unconfiguredCompleter) Configured() bool { return false }

func auSingleReceipt() receipt.Receipt {
	return receipt.Receipt{
		StoreName:          "JB HIFI",
		PurchaseDate:       "2024-01-15",
		Country:            "Australia",
		TotalAmount:        349.00,
		ProductDescription: "sony wh1000xm5 headphones black",
		BrandName:          "sony",
		Amount:             349.00,
		WarrantyPeriod:     "12 month",
	}
}

func TestInRegion(t *testing.T) {
	tests := []struct {
		name string
		r    receipt.Receipt
		want bool
	}{
		{"country code", receipt.Receipt{Country: "AU"}, true},
		{"country name", receipt.Receipt{Country: "new zealand"}, true},
		{"known retailer", receipt.Receipt{Country: "Unknown", StoreName: "jb hifi"}, true},
		{"location token", receipt.Receipt{PurchaseLocation: "Sydney NSW 2000"}, true},
		{"out of region", receipt.Receipt{Country: "United States", StoreName: "Walmart"}, false},
		{"empty receipt", receipt.Receipt{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InRegion(tt.r))
		})
	}
}

func TestValidateRegionGate(t *testing.T) {
	r := receipt.Receipt{
		StoreName:    "Walmart",
		Country:      "United States",
		PurchaseDate: "2024-01-15",
	}
	svc := NewService(&scriptedCompleter{}, nil)

	res := svc.Validate(context.Background(), r)

	assert.False(t, res.Success)
	assert.Equal(t, "region not supported", res.Err)
	assert.Equal(t, r, res.Validated)
}

func TestValidateMissingAPIKey(t *testing.T) {
	r := auSingleReceipt()
	svc := NewService(unconfiguredCompleter{}, nil)

	res := svc.Validate(context.Background(), r)

	assert.False(t, res.Success)
	assert.Contains(t, res.Err, "not configured")
	assert.Equal(t, r, res.Validated)
}

func TestValidateSingleProduct(t *testing.T) {
	fc := &scriptedCompleter{responses: map[string]string{
		"retailer name":          "The store name should be: JB Hi-Fi",
		"canonical product name": "**Sony WH-1000XM5 Headphones**",
		"capitalization":         "Sony",
		"warranty period":        "The standard warranty is 12 months.",
	}}
	svc := NewService(fc, nil)

	res := svc.Validate(context.Background(), auSingleReceipt())

	require.True(t, res.Success)
	assert.Equal(t, 4, fc.callCount())

	assert.Equal(t, "JB Hi-Fi", res.Store.Validated)
	assert.True(t, res.Store.Changed)
	assert.Greater(t, res.Store.Confidence, 0.0)

	assert.Equal(t, "Sony", res.Brand.Validated)
	assert.True(t, res.Brand.Changed)

	assert.Equal(t, "12 months", res.Warranty.Validated)

	assert.Equal(t, "JB Hi-Fi", res.Validated.StoreName)
	assert.Equal(t, "Sony WH-1000XM5 Headphones", res.Validated.ProductDescription)
	assert.Equal(t, "12 months", res.Validated.WarrantyPeriod)
	// amounts are never touched by validation
	assert.Equal(t, 349.00, res.Validated.TotalAmount)
}

func TestValidateFieldFailureIsIsolated(t *testing.T) {
	fc := &scriptedCompleter{
		responses: map[string]string{
			"retailer name":          "JB Hi-Fi",
			"canonical product name": "Sony WH-1000XM5 Headphones",
			"warranty period":        "12 months",
		},
		failOn: "capitalization",
	}
	svc := NewService(fc, nil)

	res := svc.Validate(context.Background(), auSingleReceipt())

	require.True(t, res.Success)
	assert.Equal(t, "sony", res.Brand.Validated) // original kept
	assert.Equal(t, 0.0, res.Brand.Confidence)
	assert.False(t, res.Brand.Changed)
	assert.Equal(t, "JB Hi-Fi", res.Store.Validated) // others unaffected
}

func TestValidateIdenticalFieldScoresFull(t *testing.T) {
	fc := &scriptedCompleter{responses: map[string]string{
		"retailer name":          "JB Hi-Fi",
		"canonical product name": "Sony WH-1000XM5 Headphones",
		"capitalization":         "Sony",
		"warranty period":        "12 months",
	}}
	svc := NewService(fc, nil)

	r := auSingleReceipt()
	r.StoreName = "JB Hi-Fi"
	res := svc.Validate(context.Background(), r)

	assert.Equal(t, 100.0, res.Store.Confidence)
	assert.False(t, res.Store.Changed)
}

func TestValidateMultiProductFanOut(t *testing.T) {
	fc := &scriptedCompleter{responses: map[string]string{
		"retailer name":          "JB Hi-Fi",
		"canonical product name": "Corrected Product",
		"capitalization":         "Sony",
		"warranty period":        "2 years",
	}}
	svc := NewService(fc, nil)

	r := receipt.Receipt{
		StoreName:    "JB HIFI",
		PurchaseDate: "2024-02-20",
		Country:      "Australia",
		TotalAmount:  909.90,
		Products: []receipt.Product{
			{ProductDescription: "playstation 5 console", BrandName: "sony", Amount: 799.95, WarrantyPeriod: "1 year"},
			{ProductDescription: "dualsense controller", BrandName: "sony", Amount: 109.95, WarrantyPeriod: "1 year"},
		},
	}

	res := svc.Validate(context.Background(), r)

	require.True(t, res.Success)
	// one store call plus three calls per product
	assert.Equal(t, 1+3*len(r.Products), fc.callCount())
	require.Len(t, res.Products, 2)
	for i := range res.Products {
		assert.Equal(t, "Corrected Product", res.Validated.Products[i].ProductDescription)
		assert.Equal(t, "Sony", res.Validated.Products[i].BrandName)
		assert.Equal(t, "2 years", res.Validated.Products[i].WarrantyPeriod)
	}
	// total untouched by validation
	assert.Equal(t, 909.90, res.Validated.TotalAmount)
}
