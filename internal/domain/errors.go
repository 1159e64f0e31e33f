package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrModelsNotLoaded signals that a predictor has no usable artifacts.
	ErrModelsNotLoaded = errors.New("models not loaded")
	// ErrNoUsableSymptoms signals that preprocessing left no tokens to predict on.
	ErrNoUsableSymptoms = errors.New("no valid symptoms found after preprocessing")
	// ErrBothModelsFailed signals that neither the ML nor the DL model produced a prediction.
	ErrBothModelsFailed = errors.New("both models failed to make predictions")
	// ErrUnknownMethod signals an unrecognized prediction method.
	ErrUnknownMethod = errors.New("unknown prediction method")
	// ErrValidation signals a rejected request input.
	ErrValidation = errors.New("validation failed")
	// ErrExplainUnavailable signals that the condition explainer is not configured.
	ErrExplainUnavailable = errors.New("condition explainer not configured")
)

// EmptyInputError wraps ErrNoUsableSymptoms with the offending texts.
// Unintelligible input is a distinct condition from classifier failure and
// must never degrade into a default prediction.
type EmptyInputError struct {
	OriginalText string
	CleanedText  string
}

func (e *EmptyInputError) Error() string {
	return ErrNoUsableSymptoms.Error()
}

func (e *EmptyInputError) Unwrap() error { return ErrNoUsableSymptoms }

// NewEmptyInput creates an empty-input error carrying the original and cleaned text.
func NewEmptyInput(original, cleaned string) error {
	return &EmptyInputError{OriginalText: original, CleanedText: cleaned}
}

// BothFailedError wraps ErrBothModelsFailed with the per-model causes.
// A cause defaults to "model not loaded" for a predictor that never loaded.
type BothFailedError struct {
	MLCause string
	DLCause string
}

func (e *BothFailedError) Error() string {
	return fmt.Sprintf("%s (ml: %s; dl: %s)", ErrBothModelsFailed.Error(), e.MLCause, e.DLCause)
}

func (e *BothFailedError) Unwrap() error { return ErrBothModelsFailed }
