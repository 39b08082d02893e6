// Command scan runs one receipt image through the intake pipeline and
// prints the outcome as JSON.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/warrantyvault/warranty-tracker/constants"
	"github.com/warrantyvault/warranty-tracker/internal/common"
	"github.com/warrantyvault/warranty-tracker/internal/dedupe"
	"github.com/warrantyvault/warranty-tracker/internal/extract"
	"github.com/warrantyvault/warranty-tracker/internal/llm"
	"github.com/warrantyvault/warranty-tracker/internal/ocr"
	"github.com/warrantyvault/warranty-tracker/internal/pipeline"
	"github.com/warrantyvault/warranty-tracker/internal/repository"
	"github.com/warrantyvault/warranty-tracker/internal/validate"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if len(os.Args) != 3 {
		logger.Error("usage", "cmd", "scan <user-id-uuid> <image-path>")
		os.Exit(2)
	}
	userID, err := uuid.Parse(os.Args[1])
	if err != nil {
		logger.Error("invalid user id (must be UUID)", "arg", os.Args[1], "error", err)
		os.Exit(2)
	}
	imagePath := os.Args[2]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("open receipt store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			logger.Error("close receipt store", "error", cerr)
		}
	}()

	var engines []ocr.Engine
	if cfg.OCR.GeminiAPIKey != "" {
		gemini, err := ocr.NewGeminiEngine(ctx, cfg.OCR.GeminiAPIKey, cfg.OCR.GeminiModel)
		if err != nil {
			logger.Error("init gemini engine", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gemini.Close() }()
		engines = append(engines, gemini)
	}
	engines = append(engines, ocr.NewTesseractEngine(cfg.OCR.Tesseract, cfg.OCR.TesseractLang))

	completer := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	p := pipeline.NewProcessor(
		ocr.NewService(logger, engines...),
		extract.NewService(logger, extract.NewAIStructurer(completer), extract.NewHeuristicParser()),
		validate.NewService(completer, logger),
		dedupe.NewDetector(repository.CandidateAdapter{Repo: repo}, logger),
		repo,
		logger,
	)

	ext := constants.NormalizeExt(filepath.Ext(imagePath))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		logger.Error("unsupported file extension", "path", imagePath, "ext", ext)
		os.Exit(2)
	}
	image, err := os.ReadFile(imagePath)
	if err != nil {
		logger.Error("read image", "path", imagePath, "error", err)
		os.Exit(1)
	}
	mimeType := mime.TypeByExtension("." + ext)

	start := time.Now()
	out, err := p.Process(ctx, userID, image, mimeType)
	if err != nil {
		logger.Error("intake failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode outcome", "error", err)
		os.Exit(1)
	}
	logger.Info("intake done",
		"saved", out.Saved,
		"duplicate", out.Duplicate.IsDuplicate,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func openRepository(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.ReceiptRepository, error) {
	if cfg.Database.DSN != "" {
		return repository.OpenPostgres(ctx, cfg.Database, logger)
	}
	return repository.OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
}
