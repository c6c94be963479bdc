package services

import (
	"fmt"
)

// CandidatePlaceholder marks the candidate slot in PromptTemplate.Text.
const CandidatePlaceholder = "{text}"

// PromptTemplate holds a job description interpolated once per request and a
// candidate slot filled per scoring call.
type PromptTemplate struct {
	head string
	tail string
}

// Render fills the candidate slot. The job description is never scanned for
// placeholders.
func (t PromptTemplate) Render(candidateText string) string {
	return t.head + candidateText + t.tail
}

// Text returns the template with the literal candidate placeholder.
func (t PromptTemplate) Text() string {
	return t.Render(CandidatePlaceholder)
}

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// ComposeMatchPrompt creates the resume-vs-job-description template.
func (pb *PromptBuilder) ComposeMatchPrompt(jobDescription string) PromptTemplate {
	head := fmt.Sprintf(`You are an expert at analyzing resumes against a job description.

Job Description:
%s

Resume Content:
`, jobDescription)

	tail := `

Instructions:
- Analyze how well the resume matches the job description.
- Identify key skills, experience, and qualifications.
- Provide a match score out of 10.
- Explain the score briefly.

Return the final score and explanation clearly.`

	return PromptTemplate{head: head, tail: tail}
}
