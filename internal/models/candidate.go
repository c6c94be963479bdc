package models

import "github.com/google/uuid"

// UploadedFile is one resume as received from the caller.
type UploadedFile struct {
	Filename string
	Content  []byte
	TaskID   uuid.UUID
}

// CandidateDocument is the flattened text of one resume. Ordinal is the
// 1-based position of the resume in the submitted batch.
type CandidateDocument struct {
	Ordinal int
	Content string
}

// ScoringResult is the model's assessment for the candidate with the same
// Ordinal.
type ScoringResult struct {
	Ordinal int
	Text    string
}
