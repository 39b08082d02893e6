package receipt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleReceipt() Receipt {
	return Receipt{
		StoreName:          "JB Hi-Fi",
		PurchaseDate:       "2024-01-15",
		Country:            "Australia",
		TotalAmount:        1499,
		ProductDescription: "iPhone 15 Pro",
		BrandName:          "Apple",
		ModelNumber:        "A3101",
		Amount:             1499,
		WarrantyPeriod:     "2 years",
	}
}

func TestAddProductLiftsSingle(t *testing.T) {
	r := AddProduct(singleReceipt())

	require.Len(t, r.Products, 2)
	assert.Equal(t, "iPhone 15 Pro", r.Products[0].ProductDescription)
	assert.Equal(t, "2 years", r.Products[0].WarrantyPeriod)
	assert.Equal(t, Product{}, r.Products[1])
	// inline fields are zeroed once lifted
	assert.Empty(t, r.ProductDescription)
	assert.Zero(t, r.Amount)
	assert.Equal(t, 1499.0, r.TotalAmount)
}

func TestAddProductAppendsToMulti(t *testing.T) {
	r := AddProduct(AddProduct(singleReceipt()))
	assert.Len(t, r.Products, 3)
	assert.Equal(t, 1499.0, r.TotalAmount)
}

func TestRemoveProductCollapseToSingle(t *testing.T) {
	r := AddProduct(singleReceipt())
	r = UpdateProduct(r, 1, func(p *Product) {
		p.ProductDescription = "AirPods Pro"
		p.BrandName = "Apple"
		p.Amount = 399
		p.WarrantyPeriod = "1 year"
	})
	require.Equal(t, 1898.0, r.TotalAmount)

	// removing the first leaves only AirPods, which collapse inline
	r = RemoveProduct(r, 0)
	assert.False(t, r.IsMultiProduct())
	assert.Equal(t, "AirPods Pro", r.ProductDescription)
	assert.Equal(t, "1 year", r.WarrantyPeriod)
	assert.Equal(t, 399.0, r.Amount)
	assert.Equal(t, 399.0, r.TotalAmount)
	assert.Equal(t, "JB Hi-Fi", r.StoreName)
}

func TestRemoveLastProductBlanksReceipt(t *testing.T) {
	r := AddProduct(singleReceipt())
	r = RemoveProduct(r, 1)
	r = AddProduct(r) // back to two: original + blank
	r = RemoveProduct(r, 0)
	r = RemoveProduct(r, 0)

	assert.False(t, r.IsMultiProduct())
	assert.Empty(t, r.ProductDescription)
	assert.Zero(t, r.Amount)
	assert.Zero(t, r.TotalAmount)
	assert.Equal(t, "JB Hi-Fi", r.StoreName)
	assert.Equal(t, "2024-01-15", r.PurchaseDate)
	assert.Equal(t, "Australia", r.Country)
}

func TestRoundTripSingleMultiSingle(t *testing.T) {
	orig := singleReceipt()

	lifted := AddProduct(orig)
	lifted = RemoveProduct(lifted, 1)

	assert.Equal(t, orig.ProductDescription, lifted.ProductDescription)
	assert.Equal(t, orig.BrandName, lifted.BrandName)
	assert.Equal(t, orig.ModelNumber, lifted.ModelNumber)
	assert.Equal(t, orig.Amount, lifted.Amount)
	assert.Equal(t, orig.WarrantyPeriod, lifted.WarrantyPeriod)
	assert.Equal(t, orig.TotalAmount, lifted.TotalAmount)
}

func TestUpdateProductRecomputesTotal(t *testing.T) {
	r := AddProduct(singleReceipt())
	r = UpdateProduct(r, 1, func(p *Product) { p.Amount = 250.50 })
	assert.Equal(t, 1749.50, r.TotalAmount)

	r = UpdateProduct(r, 0, func(p *Product) { p.Amount = 100 })
	assert.Equal(t, 350.50, r.TotalAmount)
}

func TestUpdateOutOfRangeIsNoop(t *testing.T) {
	r := AddProduct(singleReceipt())
	assert.Equal(t, r, UpdateProduct(r, 7, func(p *Product) { p.Amount = 1 }))
	assert.Equal(t, r, RemoveProduct(r, -1))
}

// Total must equal the product sum after any edit sequence.
func TestTotalInvariantUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 100; trial++ {
		r := singleReceipt()
		for op := 0; op < 30; op++ {
			switch rng.Intn(3) {
			case 0:
				r = AddProduct(r)
			case 1:
				if r.IsMultiProduct() {
					r = RemoveProduct(r, rng.Intn(len(r.Products)))
				}
			case 2:
				n := r.ProductCount()
				amt := float64(rng.Intn(100000)) / 100
				r = UpdateProduct(r, rng.Intn(n), func(p *Product) { p.Amount = amt })
			}

			if r.IsMultiProduct() {
				var sum float64
				for _, p := range r.Products {
					sum += p.Amount
				}
				assert.InDelta(t, sum, r.TotalAmount, 1e-9,
					"trial %d op %d: total drifted from product sum", trial, op)
			} else {
				assert.InDelta(t, r.Amount, r.TotalAmount, 1e-9,
					"trial %d op %d: single-product total mismatch", trial, op)
			}
		}
	}
}
