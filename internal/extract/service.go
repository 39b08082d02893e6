package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/warrantyvault/warranty-tracker/internal/receipt"
)

// Structurer is one structuring strategy in the ordered chain.
type Structurer interface {
	Name() string
	Structure(ctx context.Context, rawText string) (receipt.Receipt, error)
}

// Service runs structuring strategies in order until one succeeds. With the
// heuristic parser last, structuring as a whole cannot fail — only degrade.
type Service struct {
	strategies []Structurer
	logger     *slog.Logger
}

// NewService builds the structuring service over an ordered strategy chain.
func NewService(logger *slog.Logger, strategies ...Structurer) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{strategies: strategies, logger: logger}
}

// Structure converts raw OCR text to a structured receipt. Failure reasons
// of skipped strategies are carried in the log, not surfaced to the caller.
func (s *Service) Structure(ctx context.Context, rawText string) (receipt.Receipt, error) {
	var lastErr error
	for _, strat := range s.strategies {
		r, err := strat.Structure(ctx, rawText)
		if err != nil {
			s.logger.Warn("extract.strategy_failed", "strategy", strat.Name(), "error", err)
			lastErr = err
			if ctx.Err() != nil {
				return receipt.Receipt{}, ctx.Err()
			}
			continue
		}
		s.logger.Info("extract.ok",
			"strategy", strat.Name(),
			"store", r.StoreName,
			"date", r.PurchaseDate,
			"total", r.TotalAmount,
			"products", r.ProductCount(),
		)
		return r, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no structuring strategies configured")
	}
	return receipt.Receipt{}, lastErr
}
