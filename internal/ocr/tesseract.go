package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// TesseractEngine is the local fallback engine: lower accuracy, no network
// dependency. It shells out to the tesseract binary.
type TesseractEngine struct {
	Binary  string // binary name or absolute path; if empty -> "tesseract"
	Lang    string // default "eng"
	WorkDir string // scratch dir for image files, default os.TempDir()
	runner  Runner
}

// NewTesseractEngine creates the fallback engine.
func NewTesseractEngine(binary, lang string) *TesseractEngine {
	if binary == "" {
		binary = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	return &TesseractEngine{
		Binary:  binary,
		Lang:    lang,
		WorkDir: os.TempDir(),
		runner:  execRunner{},
	}
}

func (t *TesseractEngine) Name() string { return "fallback" }

// Recognize writes the image to a scratch file and runs
// `tesseract <file> stdout -l <lang>`. Confidence blends the TSV word
// confidence (when available) with the text heuristic.
func (t *TesseractEngine) Recognize(ctx context.Context, image []byte, mimeType string) (Result, error) {
	ext := constantsExtFor(mimeType)
	path := filepath.Join(t.WorkDir, uuid.New().String()+"."+ext)
	if err := os.WriteFile(path, image, 0o600); err != nil {
		return Result{Engine: t.Name()}, fmt.Errorf("write scratch image: %w", err)
	}
	defer func() { _ = os.Remove(path) }()

	out, errb, err := t.runner.Run(ctx, t.Binary, path, "stdout", "-l", t.Lang)
	if err != nil {
		return Result{Engine: t.Name(), Err: string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	text := strings.TrimSpace(string(out))

	conf := heuristicConfidence(text)
	if tsvConf, terr := t.tsvConfidence(ctx, path); terr == nil && tsvConf > 0 {
		conf = 0.7*tsvConf + 0.3*conf
	}

	return Result{
		Text:       text,
		Confidence: conf,
		Engine:     t.Name(),
	}, nil
}

// tsvConfidence runs tesseract in TSV mode and returns mean word conf in 0..100.
func (t *TesseractEngine) tsvConfidence(ctx context.Context, path string) (float64, error) {
	out, _, err := t.runner.Run(ctx, t.Binary, path, "stdout", "-l", t.Lang, "tsv")
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w", err)
	}
	lines := strings.Split(string(out), "\n")
	var sum, n float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue // skip header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10] // conf column; -1 for non-word rows
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n, nil
}

func constantsExtFor(mimeType string) string {
	switch {
	case strings.HasSuffix(mimeType, "/png"):
		return "png"
	case strings.HasSuffix(mimeType, "/webp"):
		return "webp"
	default:
		return "jpg"
	}
}
