package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"alfredoptarigan/resume-matcher/internal/models"
)

type RenderedCandidate struct {
	Ordinal int
	Body    template.HTML
}

// ResultRenderer turns model output (markdown) into HTML. Raw HTML in the
// output is omitted since the model may echo resume text.
type ResultRenderer struct {
	md goldmark.Markdown
}

func NewResultRenderer() *ResultRenderer {
	return &ResultRenderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (r *ResultRenderer) Render(results []models.ScoringResult) ([]RenderedCandidate, error) {
	rendered := make([]RenderedCandidate, 0, len(results))
	for _, result := range results {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(result.Text), &buf); err != nil {
			return nil, fmt.Errorf("failed to render candidate %d: %w", result.Ordinal, err)
		}
		rendered = append(rendered, RenderedCandidate{
			Ordinal: result.Ordinal,
			Body:    template.HTML(buf.String()),
		})
	}
	return rendered, nil
}
