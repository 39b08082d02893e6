package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/warrantyvault/warranty-tracker/internal/common"
	"github.com/warrantyvault/warranty-tracker/internal/currency"
	"github.com/warrantyvault/warranty-tracker/internal/llm"
	"github.com/warrantyvault/warranty-tracker/internal/receipt"
)

const structureSystemPrompt = `You are a receipt parser. Extract EVERY line item from the receipt text into JSON.
Return ONLY a JSON object of this shape:
{
  "items": [{"product_description": "", "brand_name": "", "model_number": "",
             "price": 0, "quantity": 1, "warranty_period_months": 0,
             "extended_warranty_months": 0}],
  "store_info": {"store_name": "", "purchase_location": "",
                 "purchase_date": "YYYY-MM-DD", "total_amount": 0,
                 "country": "", "currency": ""}
}
Use ISO-8601 dates (YYYY-MM-DD). Omit nothing: every purchasable line item
belongs in items. If a field is unknown use null.`

// AIStructurer turns raw OCR text into a structured receipt via a chat
// completion call.
type AIStructurer struct {
	completer llm.Completer
	now       func() time.Time
}

// NewAIStructurer builds the primary structuring strategy.
func NewAIStructurer(completer llm.Completer) *AIStructurer {
	return &AIStructurer{completer: completer, now: time.Now}
}

func (a *AIStructurer) Name() string { return "ai" }

// Structure sends the raw text to the completion endpoint and parses the
// response defensively: prose around the JSON is stripped, the object is
// schema-validated, and drifting types are coerced.
func (a *AIStructurer) Structure(ctx context.Context, rawText string) (receipt.Receipt, error) {
	if a.completer == nil || !a.completer.Configured() {
		return receipt.Receipt{}, common.ErrAPIKeyMissing
	}

	user := "Receipt text:\n\n" + clip(rawText, 6000)
	content, err := a.completer.Complete(ctx, structureSystemPrompt, user)
	if err != nil {
		return receipt.Receipt{}, err
	}

	block, ok := extractJSONBlock(content)
	if !ok {
		return receipt.Receipt{}, fmt.Errorf("%w: no JSON object in response", common.ErrMalformedAIResponse)
	}
	if err := validateAgainstSchema(buildEnvelopeSchema(), []byte(block)); err != nil {
		return receipt.Receipt{}, fmt.Errorf("%w: %v", common.ErrMalformedAIResponse, err)
	}

	var env aiEnvelope
	if err := json.Unmarshal([]byte(block), &env); err != nil {
		return receipt.Receipt{}, fmt.Errorf("%w: %v", common.ErrMalformedAIResponse, err)
	}
	if len(env.Items) == 0 || env.StoreInfo == nil {
		return receipt.Receipt{}, fmt.Errorf("%w: missing items or store_info", common.ErrMalformedAIResponse)
	}

	return a.assemble(env), nil
}

// assemble coerces the wire envelope into the receipt record. One item
// yields the single-product shape, several yield the multi-product shape
// with the total recomputed from the line items so the total/sum invariant
// holds from the start.
func (a *AIStructurer) assemble(env aiEnvelope) receipt.Receipt {
	si := env.StoreInfo
	r := receipt.Receipt{
		StoreName:        strings.TrimSpace(si.StoreName),
		PurchaseLocation: strings.TrimSpace(si.PurchaseLocation),
		PurchaseDate:     coerceISODate(strings.TrimSpace(si.PurchaseDate), a.now()),
		Country:          strings.TrimSpace(si.Country),
		Currency:         strings.ToUpper(strings.TrimSpace(si.Currency)),
	}
	if r.Currency == "" {
		if info, ok := currency.Lookup(r.Country); ok {
			r.Currency = info.Code
		}
	}

	products := make([]receipt.Product, 0, len(env.Items))
	var sum float64
	for _, it := range env.Items {
		qty := int(it.Quantity)
		if qty <= 0 {
			qty = 1
		}
		amount := float64(it.Price) * float64(qty)
		products = append(products, receipt.Product{
			ProductDescription: strings.TrimSpace(it.ProductDescription),
			BrandName:          strings.TrimSpace(it.BrandName),
			ModelNumber:        strings.TrimSpace(it.ModelNumber),
			Amount:             amount,
			WarrantyPeriod:     monthsToPeriod(int(it.WarrantyPeriodMonths)),
			Category:           strings.TrimSpace(it.Category),
		})
		sum += amount
	}

	if ext := maxExtendedMonths(env.Items); ext > 0 {
		r.ExtendedWarranty = monthsToPeriod(ext)
	}

	if len(products) == 1 {
		p := products[0]
		r.ProductDescription = p.ProductDescription
		r.BrandName = p.BrandName
		r.ModelNumber = p.ModelNumber
		r.Amount = p.Amount
		r.WarrantyPeriod = p.WarrantyPeriod
		r.TotalAmount = float64(si.TotalAmount)
		if r.TotalAmount == 0 {
			r.TotalAmount = p.Amount
		}
		return r
	}

	r.Products = products
	r.TotalAmount = sum
	return r
}

func maxExtendedMonths(items []aiItem) int {
	maxM := 0
	for _, it := range items {
		if int(it.ExtendedWarrantyMonths) > maxM {
			maxM = int(it.ExtendedWarrantyMonths)
		}
	}
	return maxM
}

// monthsToPeriod renders a month count as free-text ("1 year", "18 months").
func monthsToPeriod(months int) string {
	switch {
	case months <= 0:
		return ""
	case months == 12:
		return "1 year"
	case months%12 == 0:
		return fmt.Sprintf("%d years", months/12)
	case months == 1:
		return "1 month"
	default:
		return fmt.Sprintf("%d months", months)
	}
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
