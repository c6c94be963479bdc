package services

import "alfredoptarigan/resume-matcher/internal/models"

// BuildCandidate wraps extracted text as-is; no trimming or truncation.
func BuildCandidate(ordinal int, text string) models.CandidateDocument {
	return models.CandidateDocument{
		Ordinal: ordinal,
		Content: text,
	}
}
