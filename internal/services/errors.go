package services

import (
	"errors"
	"fmt"
)

var (
	ErrNoFiles       = errors.New("no files uploaded")
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// ExtractionError reports a file whose content could not be parsed by the
// strategy selected for its extension.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %q: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ScoringError reports a failed or unusable model call for the candidate at
// Index (1-based).
type ScoringError struct {
	Index int
	Err   error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("failed to score candidate %d: %v", e.Index, e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}
