// Command warranty-report writes a user's warranty position to an XLSX file.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/warrantyvault/warranty-tracker/internal/common"
	"github.com/warrantyvault/warranty-tracker/internal/export"
	"github.com/warrantyvault/warranty-tracker/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if len(os.Args) != 3 {
		logger.Error("usage", "cmd", "warranty-report <user-id-uuid> <output.xlsx>")
		os.Exit(2)
	}
	userID, err := uuid.Parse(os.Args[1])
	if err != nil {
		logger.Error("invalid user id (must be UUID)", "arg", os.Args[1], "error", err)
		os.Exit(2)
	}
	outPath := os.Args[2]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var repo repository.ReceiptRepository
	if cfg.Database.DSN != "" {
		repo, err = repository.OpenPostgres(ctx, cfg.Database, logger)
	} else {
		repo, err = repository.OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
	}
	if err != nil {
		logger.Error("open receipt store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			logger.Error("close receipt store", "error", cerr)
		}
	}()

	data, err := export.NewService(repo, logger).WarrantyReportXLSX(ctx, userID)
	if err != nil {
		logger.Error("build report", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		logger.Error("write report", "path", outPath, "error", err)
		os.Exit(1)
	}

	logger.Info("report written", "path", outPath, "bytes", len(data))
}
