package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/warrantyvault/warranty-tracker/constants"
	"github.com/warrantyvault/warranty-tracker/internal/common"
)

// Service runs the engine failover chain. The fallback is strictly
// sequential: an engine is attempted only after every engine before it has
// failed.
type Service struct {
	engines []Engine
	logger  *slog.Logger
}

// NewService builds the extraction service over an ordered engine chain.
func NewService(logger *slog.Logger, engines ...Engine) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{engines: engines, logger: logger}
}

// ExtractText converts a receipt image to raw text. File-shape violations
// (non-image MIME, >10MB) are rejected before any network call with a
// zero-confidence result. Empty text after a successful engine call is a
// NoTextDetected failure and the chain moves on.
func (s *Service) ExtractText(ctx context.Context, image []byte, mimeType string) (Result, error) {
	if !constants.IsImageMIME(mimeType) {
		err := fmt.Errorf("%w: %q is not an image", common.ErrInvalidFileType, mimeType)
		return Result{Confidence: 0, Err: err.Error()}, err
	}
	if len(image) > constants.MaxUploadBytes {
		err := fmt.Errorf("%w: %d bytes exceeds %d", common.ErrFileTooLarge, len(image), constants.MaxUploadBytes)
		return Result{Confidence: 0, Err: err.Error()}, err
	}
	if len(s.engines) == 0 {
		err := fmt.Errorf("%w: no engines configured", common.ErrEngineUnavailable)
		return Result{Confidence: 0, Err: err.Error()}, err
	}

	if scaled, newMIME := downscale(image); newMIME != "" {
		s.logger.Debug("ocr.downscaled", "from_bytes", len(image), "to_bytes", len(scaled))
		image, mimeType = scaled, newMIME
	}

	// Each attempted engine's failure reason is carried for diagnostics.
	var failures []string
	for _, eng := range s.engines {
		res, err := eng.Recognize(ctx, image, mimeType)
		if err == nil && strings.TrimSpace(res.Text) == "" {
			err = common.ErrNoTextDetected
		}
		if err != nil {
			s.logger.Warn("ocr.engine_failed", "engine", eng.Name(), "error", err)
			failures = append(failures, fmt.Sprintf("%s: %v", eng.Name(), err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		s.logger.Info("ocr.ok",
			"engine", eng.Name(),
			"text_len", len(res.Text),
			"confidence", res.Confidence,
		)
		return res, nil
	}

	err := fmt.Errorf("%w: %s", common.ErrEngineUnavailable, strings.Join(failures, "; "))
	return Result{Confidence: 0, Err: err.Error()}, err
}
