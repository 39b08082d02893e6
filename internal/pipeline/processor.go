// Package pipeline wires the intake stages together: OCR, structuring,
// validation, duplicate detection, save. Every stage before the save
// degrades rather than aborts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/warrantyvault/warranty-tracker/internal/dedupe"
	"github.com/warrantyvault/warranty-tracker/internal/extract"
	"github.com/warrantyvault/warranty-tracker/internal/ocr"
	"github.com/warrantyvault/warranty-tracker/internal/receipt"
	"github.com/warrantyvault/warranty-tracker/internal/repository"
	"github.com/warrantyvault/warranty-tracker/internal/validate"
)

// Outcome carries every stage's result so callers can show the user what
// happened: OCR quality, the structured data, per-field corrections, and
// any duplicate hit that blocked the save.
type Outcome struct {
	OCR        ocr.Result      `json:"ocr"`
	Quality    ocr.Assessment  `json:"quality"`
	Extracted  receipt.Receipt `json:"extracted"`
	Validation validate.Result `json:"validation"`
	Duplicate  dedupe.Outcome  `json:"duplicate"`
	ReceiptID  uuid.UUID       `json:"receipt_id,omitempty"`
	Saved      bool            `json:"saved"`
}

// Processor runs one receipt image through the full intake chain.
type Processor struct {
	ocr       *ocr.Service
	extractor *extract.Service
	validator *validate.Service
	detector  *dedupe.Detector
	repo      repository.ReceiptRepository
	logger    *slog.Logger
}

// NewProcessor assembles the pipeline.
func NewProcessor(
	ocrSvc *ocr.Service,
	extractor *extract.Service,
	validator *validate.Service,
	detector *dedupe.Detector,
	repo repository.ReceiptRepository,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		ocr:       ocrSvc,
		extractor: extractor,
		validator: validator,
		detector:  detector,
		repo:      repo,
		logger:    logger,
	}
}

// Process runs intake end to end. Hard failures are file-shape violations,
// total OCR failure, and the final save; everything in between downgrades
// data quality instead of stopping. A duplicate hit returns with Saved=false
// and the matches for the user to review.
func (p *Processor) Process(ctx context.Context, userID uuid.UUID, image []byte, mimeType string) (Outcome, error) {
	var out Outcome

	res, err := p.ocr.ExtractText(ctx, image, mimeType)
	out.OCR = res
	if err != nil {
		return out, err
	}
	out.Quality = ocr.AssessQuality(res)

	extracted, err := p.extractor.Structure(ctx, res.Text)
	if err != nil {
		return out, err
	}
	out.Extracted = extracted

	out.Validation = p.validator.Validate(ctx, extracted)
	data := extracted
	if out.Validation.Success {
		data = out.Validation.Validated
	} else {
		p.logger.Info("pipeline.validation_skipped", "reason", out.Validation.Err)
	}

	out.Duplicate = p.detector.Check(ctx, userID, data)
	if out.Duplicate.IsDuplicate {
		p.logger.Info("pipeline.duplicate_blocked",
			"user_id", userID,
			"store", data.StoreName,
			"confidence", out.Duplicate.Confidence,
		)
		return out, nil
	}

	id, err := p.repo.Save(ctx, userID, data)
	if err != nil {
		return out, fmt.Errorf("save receipt: %w", err)
	}
	out.ReceiptID = id
	out.Saved = true
	p.logger.Info("pipeline.ok",
		"user_id", userID,
		"receipt_id", id,
		"store", data.StoreName,
		"total", data.TotalAmount,
		"quality", out.Quality.Tier,
	)
	return out, nil
}
