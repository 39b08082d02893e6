package extract

// buildEnvelopeSchema returns a JSON-Schema (draft 2020-12 subset) for the
// AI structuring response. Validated locally right after parsing so shape
// drift is rejected in one place instead of at each call site. Money fields
// are deliberately loose (number or string) — the flex decoders coerce them.
func buildEnvelopeSchema() map[string]any {
	numberish := map[string]any{"type": []string{"number", "string", "null"}}
	stringish := map[string]any{"type": []string{"string", "null"}}

	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"product_description":      map[string]any{"type": "string", "minLength": 1},
			"brand_name":               stringish,
			"model_number":             stringish,
			"price":                    numberish,
			"quantity":                 numberish,
			"warranty_period_months":   numberish,
			"extended_warranty_months": numberish,
			"category":                 stringish,
		},
		"required": []string{"product_description"},
	}

	storeInfo := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"store_name":        map[string]any{"type": "string", "minLength": 1},
			"purchase_location": stringish,
			"purchase_date":     stringish,
			"total_amount":      numberish,
			"country":           stringish,
			"currency":          stringish,
		},
		"required": []string{"store_name"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items":      map[string]any{"type": "array", "items": item, "minItems": 1},
			"store_info": storeInfo,
		},
		"required": []string{"items", "store_info"},
	}
}
