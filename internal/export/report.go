// Package export renders a user's warranty position as an XLSX workbook,
// one row per product with its computed expiry and urgency.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/warrantyvault/warranty-tracker/internal/receipt"
	"github.com/warrantyvault/warranty-tracker/internal/repository"
	"github.com/warrantyvault/warranty-tracker/internal/warranty"
)

// Service produces XLSX bytes for warranty reports.
type Service struct {
	repo   repository.ReceiptRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds the report service.
func NewService(repo repository.ReceiptRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WarrantyReportXLSX returns a workbook listing every product the user has
// saved, with warranty expiry, remaining days, and urgency recomputed at
// call time.
func (s *Service) WarrantyReportXLSX(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	start := time.Now()

	recs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Warranties"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Store",
		"Product",
		"Brand",
		"Amount",
		"Purchase Date",
		"Warranty Period",
		"Expiry Date",
		"Days Left",
		"Urgency",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	now := s.now().UTC()
	row := 2
	rows := 0
	for _, rec := range recs {
		for _, p := range productsOf(rec.Data) {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, v)
			}

			period := p.WarrantyPeriod
			if period == "" {
				period = warranty.DefaultPeriod(p.ProductDescription, p.BrandName)
			}

			write(1, rec.Data.StoreName)
			write(2, truncate(p.ProductDescription, 140))
			write(3, p.BrandName)
			write(4, p.Amount)
			write(5, rec.Data.PurchaseDate)

			purchase, err := time.Parse("2006-01-02", rec.Data.PurchaseDate)
			if err != nil {
				write(6, period)
			} else {
				item := warranty.Compute(purchase, period, now)
				write(6, period)
				write(7, item.ExpiryDate.Format("2006-01-02"))
				write(8, item.DaysLeft)
				write(9, string(item.Urgency))
			}

			row++
			rows++
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 22) // store
	_ = f.SetColWidth(sheet, "B", "B", 40) // product
	_ = f.SetColWidth(sheet, "C", "C", 16) // brand
	_ = f.SetColWidth(sheet, "D", "D", 12) // amount
	_ = f.SetColWidth(sheet, "E", "G", 14) // dates, period
	_ = f.SetColWidth(sheet, "H", "I", 10) // days, urgency

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"user_id", userID.String(),
		"rows", rows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// productsOf flattens both receipt shapes into line items.
func productsOf(r receipt.Receipt) []receipt.Product {
	if r.IsMultiProduct() {
		return r.Products
	}
	return []receipt.Product{{
		ProductDescription: r.ProductDescription,
		BrandName:          r.BrandName,
		ModelNumber:        r.ModelNumber,
		Amount:             r.Amount,
		WarrantyPeriod:     r.WarrantyPeriod,
	}}
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
