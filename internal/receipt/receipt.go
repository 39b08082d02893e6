// Package receipt defines the extracted receipt record and the operations
// that convert between its single-product and multi-product shapes.
package receipt

// Product is one line item on a multi-product receipt.
type Product struct {
	ProductDescription string  `json:"product_description"`
	BrandName          string  `json:"brand_name"`
	ModelNumber        string  `json:"model_number"`
	Amount             float64 `json:"amount"`
	WarrantyPeriod     string  `json:"warranty_period"`
	Category           string  `json:"category,omitempty"`
}

// Receipt is the structured record produced by the extraction pipeline.
// It is denormalized: a single-product receipt carries the five product
// fields inline; a multi-product receipt carries Products instead.
// Invariant: when Products is non-empty, TotalAmount equals the sum of
// Products[i].Amount after every mutation.
type Receipt struct {
	StoreName        string  `json:"store_name"`
	PurchaseLocation string  `json:"purchase_location,omitempty"`
	PurchaseDate     string  `json:"purchase_date"` // YYYY-MM-DD
	Country          string  `json:"country,omitempty"`
	Currency         string  `json:"currency,omitempty"`
	TotalAmount      float64 `json:"total_amount"`
	ExtendedWarranty string  `json:"extended_warranty,omitempty"`

	// Single-product fields; zeroed when Products is populated.
	ProductDescription string  `json:"product_description,omitempty"`
	BrandName          string  `json:"brand_name,omitempty"`
	ModelNumber        string  `json:"model_number,omitempty"`
	Amount             float64 `json:"amount,omitempty"`
	WarrantyPeriod     string  `json:"warranty_period,omitempty"`

	Products []Product `json:"products,omitempty"`
}

// IsMultiProduct reports whether the receipt is in multi-product shape.
func (r Receipt) IsMultiProduct() bool {
	return len(r.Products) > 0
}

// Clone returns a deep copy; Products is the only reference field.
func (r Receipt) Clone() Receipt {
	out := r
	if r.Products != nil {
		out.Products = make([]Product, len(r.Products))
		copy(out.Products, r.Products)
	}
	return out
}

// ProductCount returns the number of line items (1 for single-product shape).
func (r Receipt) ProductCount() int {
	if r.IsMultiProduct() {
		return len(r.Products)
	}
	return 1
}
