package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline error taxonomy. Every stage except the final save degrades rather
// than aborts: a failure downgrades data quality instead of stopping the
// pipeline. Only file-shape violations and save failures are hard stops.
var (
	ErrInvalidFileType       = errors.New("invalid file type")
	ErrFileTooLarge          = errors.New("file too large")
	ErrNoTextDetected        = errors.New("no text detected")
	ErrEngineUnavailable     = errors.New("ocr engine unavailable")
	ErrAIUnavailable         = errors.New("ai service unavailable")
	ErrMalformedAIResponse   = errors.New("malformed ai response")
	ErrRegionNotSupported    = errors.New("region not supported")
	ErrAPIKeyMissing         = errors.New("api key missing")
	ErrDuplicateQueryFailure = errors.New("duplicate candidate query failed")
	ErrDuplicateReceipt      = errors.New("duplicate receipt")
	ErrSaveFailure           = errors.New("save failed")
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidInput          = errors.New("invalid input")
)

// NewAppError constructs an AppError.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapError annotates err with a message, preserving the chain.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
