package validate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/warrantyvault/warranty-tracker/internal/llm"
	"github.com/warrantyvault/warranty-tracker/internal/receipt"
	"github.com/warrantyvault/warranty-tracker/internal/similarity"
)

// FieldValidation records one field's correction attempt. Confidence is
// 100 * similarity(original, validated); a failed AI call leaves the
// original value with confidence 0.
type FieldValidation struct {
	Original   string  `json:"original"`
	Validated  string  `json:"validated"`
	Confidence float64 `json:"confidence"`
	Changed    bool    `json:"changed"`
}

// ProductValidation groups the per-product field corrections of a
// multi-product receipt.
type ProductValidation struct {
	Description FieldValidation `json:"description"`
	Brand       FieldValidation `json:"brand"`
	Warranty    FieldValidation `json:"warranty"`
}

// Result is the outcome of validating one receipt. When Success is false,
// Validated is the unmodified input — validation never corrupts data on the
// way out.
type Result struct {
	Store       FieldValidation     `json:"store"`
	Description FieldValidation     `json:"description"`
	Brand       FieldValidation     `json:"brand"`
	Warranty    FieldValidation     `json:"warranty"`
	Products    []ProductValidation `json:"products,omitempty"`
	Success     bool                `json:"success"`
	Err         string              `json:"error,omitempty"`
	Validated   receipt.Receipt     `json:"validated_data"`
}

const fieldSystemPrompt = `You are a retail product data expert for Australian and New Zealand stores.
Answer with the corrected value only, no explanation.`

// Service runs AI-assisted field correction behind the region gate.
type Service struct {
	completer llm.Completer
	logger    *slog.Logger
}

// NewService builds the validation service.
func NewService(completer llm.Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{completer: completer, logger: logger}
}

// Validate corrects the receipt's text fields. Out-of-region receipts and
// missing API configuration short-circuit with Success=false and the input
// passed through untouched; individual field failures degrade that field
// only.
func (s *Service) Validate(ctx context.Context, r receipt.Receipt) Result {
	if !InRegion(r) {
		s.logger.Info("validate.skipped", "reason", "region", "country", r.Country, "store", r.StoreName)
		return Result{Err: "region not supported", Validated: r.Clone()}
	}
	if s.completer == nil || !s.completer.Configured() {
		s.logger.Warn("validate.skipped", "reason", "api key not configured")
		return Result{Err: "validation API key not configured", Validated: r.Clone()}
	}

	var res Result
	if r.IsMultiProduct() {
		res = s.validateMulti(ctx, r)
	} else {
		res = s.validateSingle(ctx, r)
	}
	s.logger.Info("validate.ok",
		"store", res.Validated.StoreName,
		"products", res.Validated.ProductCount(),
		"store_confidence", res.Store.Confidence,
	)
	return res
}

func (s *Service) validateSingle(ctx context.Context, r receipt.Receipt) Result {
	res := Result{Success: true, Validated: r.Clone()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Store = s.validateField(gctx, storePrompt(r.StoreName), r.StoreName, cleanStoreName)
		return nil
	})
	g.Go(func() error {
		res.Description = s.validateField(gctx, descriptionPrompt(r.ProductDescription, r.BrandName), r.ProductDescription, cleanFieldValue)
		return nil
	})
	g.Go(func() error {
		res.Brand = s.validateField(gctx, brandPrompt(r.BrandName), r.BrandName, cleanFieldValue)
		return nil
	})
	g.Go(func() error {
		res.Warranty = s.validateField(gctx, warrantyPrompt(r.WarrantyPeriod, r.ProductDescription), r.WarrantyPeriod, cleanWarrantyPeriod)
		return nil
	})
	_ = g.Wait()

	res.Validated.StoreName = res.Store.Validated
	res.Validated.ProductDescription = res.Description.Validated
	res.Validated.BrandName = res.Brand.Validated
	res.Validated.WarrantyPeriod = res.Warranty.Validated
	return res
}

func (s *Service) validateMulti(ctx context.Context, r receipt.Receipt) Result {
	res := Result{Success: true, Validated: r.Clone()}
	res.Products = make([]ProductValidation, len(r.Products))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Store = s.validateField(gctx, storePrompt(r.StoreName), r.StoreName, cleanStoreName)
		return nil
	})
	for i := range r.Products {
		i := i
		p := r.Products[i]
		g.Go(func() error {
			pg, pctx := errgroup.WithContext(gctx)
			pg.Go(func() error {
				res.Products[i].Description = s.validateField(pctx, descriptionPrompt(p.ProductDescription, p.BrandName), p.ProductDescription, cleanFieldValue)
				return nil
			})
			pg.Go(func() error {
				res.Products[i].Brand = s.validateField(pctx, brandPrompt(p.BrandName), p.BrandName, cleanFieldValue)
				return nil
			})
			pg.Go(func() error {
				res.Products[i].Warranty = s.validateField(pctx, warrantyPrompt(p.WarrantyPeriod, p.ProductDescription), p.WarrantyPeriod, cleanWarrantyPeriod)
				return nil
			})
			return pg.Wait()
		})
	}
	_ = g.Wait()

	res.Validated.StoreName = res.Store.Validated
	for i := range res.Products {
		res.Validated.Products[i].ProductDescription = res.Products[i].Description.Validated
		res.Validated.Products[i].BrandName = res.Products[i].Brand.Validated
		res.Validated.Products[i].WarrantyPeriod = res.Products[i].Warranty.Validated
	}
	return res
}

type cleaner func(response, original string) string

// validateField issues one prompt and cleans the answer. Any failure keeps
// the original value with confidence 0 so one bad call cannot sink the
// whole validation.
func (s *Service) validateField(ctx context.Context, prompt, original string, clean cleaner) FieldValidation {
	fv := FieldValidation{Original: original, Validated: original}
	if strings.TrimSpace(original) == "" {
		return fv
	}

	content, err := s.completer.Complete(ctx, fieldSystemPrompt, prompt)
	if err != nil {
		s.logger.Warn("validate.field_failed", "error", err)
		return fv
	}

	validated := clean(content, original)
	if strings.TrimSpace(validated) == "" {
		validated = original
	}
	fv.Validated = validated
	fv.Confidence = 100 * similarity.Score(original, validated)
	fv.Changed = original != validated
	return fv
}

func storePrompt(name string) string {
	return fmt.Sprintf("What is the canonical retailer name for the store %q on a receipt? Reply with the official store name.", name)
}

func descriptionPrompt(desc, brand string) string {
	return fmt.Sprintf("Give a canonical product name, 60 characters or less, for %q by %q. Keep the brand and key model info, drop marketing text.", desc, brand)
}

func brandPrompt(brand string) string {
	return fmt.Sprintf("Correct the official capitalization and spelling of the brand %q.", brand)
}

func warrantyPrompt(period, productDesc string) string {
	return fmt.Sprintf("Standardize the warranty period %q for the product %q. Reply with a period like \"2 years\" or \"6 months\".", period, productDesc)
}
