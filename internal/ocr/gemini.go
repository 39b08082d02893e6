package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sethvargo/go-retry"
	"google.golang.org/api/option"

	"github.com/warrantyvault/warranty-tracker/constants"
)

const geminiTranscribePrompt = `Transcribe ALL text visible on this retail receipt exactly as printed.
Preserve line breaks. Do not summarize, translate, or add commentary.
Return only the transcribed text.`

// GeminiEngine is the primary cloud OCR engine (high accuracy, requires
// network and an API key).
type GeminiEngine struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiEngine creates the cloud engine.
func NewGeminiEngine(ctx context.Context, apiKey, modelName string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiEngine{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (g *GeminiEngine) Name() string { return "primary" }

// Recognize transcribes the receipt via Gemini vision. Transient API errors
// are retried with backoff before the failover chain moves on.
func (g *GeminiEngine) Recognize(ctx context.Context, image []byte, mimeType string) (Result, error) {
	format := constants.ImageDataFormat(mimeType)
	parts := []genai.Part{
		genai.ImageData(format, image),
		genai.Text(geminiTranscribePrompt),
	}

	backoff := retry.WithMaxRetries(2, retry.NewExponential(time.Second))
	var resp *genai.GenerateContentResponse
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		resp, err = g.model.GenerateContent(ctx, parts...)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return Result{Engine: g.Name()}, fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return Result{Engine: g.Name()}, fmt.Errorf("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	text := strings.TrimSpace(sb.String())

	return Result{
		Text:       text,
		Confidence: heuristicConfidence(text),
		Engine:     g.Name(),
	}, nil
}

// Close releases the underlying API client.
func (g *GeminiEngine) Close() error { return g.client.Close() }
