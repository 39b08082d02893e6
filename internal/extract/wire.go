package extract

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The AI channel is an unstructured wire contract: responses may wrap the
// JSON in prose, and numeric fields drift between numbers and strings.
// flexFloat/flexInt absorb the type drift; extractJSONBlock strips the prose.

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.Trim(s, "$£€¥₹ "))
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = flexInt(f)
	return nil
}

// aiItem is one line item in the AI structuring response.
type aiItem struct {
	ProductDescription     string    `json:"product_description"`
	BrandName              string    `json:"brand_name"`
	ModelNumber            string    `json:"model_number"`
	Price                  flexFloat `json:"price"`
	Quantity               flexInt   `json:"quantity"`
	WarrantyPeriodMonths   flexInt   `json:"warranty_period_months"`
	ExtendedWarrantyMonths flexInt   `json:"extended_warranty_months"`
	Category               string    `json:"category"`
}

// aiStoreInfo is the receipt header in the AI structuring response.
type aiStoreInfo struct {
	StoreName        string    `json:"store_name"`
	PurchaseLocation string    `json:"purchase_location"`
	PurchaseDate     string    `json:"purchase_date"`
	TotalAmount      flexFloat `json:"total_amount"`
	Country          string    `json:"country"`
	Currency         string    `json:"currency"`
}

type aiEnvelope struct {
	Items     []aiItem     `json:"items"`
	StoreInfo *aiStoreInfo `json:"store_info"`
}

// extractJSONBlock returns the first balanced {...} block in s, skipping
// braces inside JSON string literals. AI responses may surround the object
// with prose or markdown fences.
func extractJSONBlock(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
