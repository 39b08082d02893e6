// Package ocr converts a receipt image into raw text with a confidence score.
// Engines are tried in order: the cloud engine first, then the local
// fallback. Callers see one logical "extract text" capability; which engine
// ran is carried only as a diagnostic tag.
package ocr

import "context"

// Result is the outcome of one extraction attempt. Confidence is 0..100.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Engine     string  `json:"engine"`
	Err        string  `json:"error,omitempty"`
}

// Engine is one OCR strategy in the failover chain.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte, mimeType string) (Result, error)
}
