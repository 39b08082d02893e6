package receipt

// Normalizer operations keep the single↔multi-product shapes consistent.
// Every edit returns a new Receipt with TotalAmount recomputed, so a stale
// total cannot be observed.

// AddProduct appends a blank product. A single-product receipt is first
// lifted into multi-product shape: its five inline product fields (warranty
// period included) become Products[0], then the blank product is appended.
func AddProduct(r Receipt) Receipt {
	out := r.Clone()
	if !out.IsMultiProduct() {
		out.Products = []Product{liftInline(out)}
		clearInline(&out)
	}
	out.Products = append(out.Products, Product{})
	return recomputeTotal(out)
}

// RemoveProduct removes the product at index i. With no products left the
// receipt collapses to a blank single-product shape (amount 0) preserving
// store, date and country. With exactly one left, that product's fields
// collapse back into the inline single-product fields. Out-of-range indexes
// return the receipt unchanged.
func RemoveProduct(r Receipt, i int) Receipt {
	if !r.IsMultiProduct() || i < 0 || i >= len(r.Products) {
		return r.Clone()
	}
	out := r.Clone()
	out.Products = append(out.Products[:i], out.Products[i+1:]...)

	switch len(out.Products) {
	case 0:
		clearInline(&out)
		out.Products = nil
		out.TotalAmount = 0
		return out
	case 1:
		// The surviving product's fields are kept; the removed product's
		// warranty period is lost here. Documented behavior.
		p := out.Products[0]
		out.Products = nil
		lowerInline(&out, p)
		out.TotalAmount = p.Amount
		return out
	default:
		return recomputeTotal(out)
	}
}

// UpdateProduct applies mutate to the product at index i and recomputes the
// total. Out-of-range indexes return the receipt unchanged. For a
// single-product receipt index 0 addresses the inline fields.
func UpdateProduct(r Receipt, i int, mutate func(*Product)) Receipt {
	out := r.Clone()
	if !out.IsMultiProduct() {
		if i != 0 {
			return out
		}
		p := liftInline(out)
		mutate(&p)
		lowerInline(&out, p)
		out.TotalAmount = p.Amount
		return out
	}
	if i < 0 || i >= len(out.Products) {
		return out
	}
	mutate(&out.Products[i])
	return recomputeTotal(out)
}

// ToSingle collapses a one-product receipt back to single-product shape.
// Receipts with zero or multiple products are returned unchanged; the
// round trip single → multi(1) → single preserves description, brand,
// model and amount exactly.
func ToSingle(r Receipt) Receipt {
	if len(r.Products) != 1 {
		return r.Clone()
	}
	out := r.Clone()
	p := out.Products[0]
	out.Products = nil
	lowerInline(&out, p)
	out.TotalAmount = p.Amount
	return out
}

func liftInline(r Receipt) Product {
	return Product{
		ProductDescription: r.ProductDescription,
		BrandName:          r.BrandName,
		ModelNumber:        r.ModelNumber,
		Amount:             r.Amount,
		WarrantyPeriod:     r.WarrantyPeriod,
	}
}

func lowerInline(r *Receipt, p Product) {
	r.ProductDescription = p.ProductDescription
	r.BrandName = p.BrandName
	r.ModelNumber = p.ModelNumber
	r.Amount = p.Amount
	r.WarrantyPeriod = p.WarrantyPeriod
}

func clearInline(r *Receipt) {
	r.ProductDescription = ""
	r.BrandName = ""
	r.ModelNumber = ""
	r.Amount = 0
	r.WarrantyPeriod = ""
}

func recomputeTotal(r Receipt) Receipt {
	var sum float64
	for _, p := range r.Products {
		sum += p.Amount
	}
	r.TotalAmount = sum
	return r
}
