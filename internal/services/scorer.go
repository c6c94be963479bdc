package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/logger"
	"alfredoptarigan/resume-matcher/internal/metrics"
	"alfredoptarigan/resume-matcher/internal/models"
)

const maxLogPreview = 200

type ScorerService interface {
	Score(ctx context.Context, tmpl PromptTemplate, doc models.CandidateDocument) (string, error)
}

type scorerService struct {
	generator TextGenerator
	timeout   time.Duration
	maxChars  int
	logger    *zap.Logger
}

// NewScorerService wraps generator with a per-call timeout. A zero timeout
// leaves only the caller's deadline. maxChars is a warning threshold for
// oversized candidate text; nothing is truncated.
func NewScorerService(generator TextGenerator, timeout time.Duration, maxChars int, log *zap.Logger) ScorerService {
	return &scorerService{
		generator: generator,
		timeout:   timeout,
		maxChars:  maxChars,
		logger:    logger.OrNop(log),
	}
}

// Score issues exactly one model call and returns its text verbatim.
func (s *scorerService) Score(ctx context.Context, tmpl PromptTemplate, doc models.CandidateDocument) (string, error) {
	prompt := tmpl.Render(doc.Content)

	log := s.logger.With(zap.Int("candidate", doc.Ordinal))

	if chars := utf8.RuneCountInString(doc.Content); s.maxChars > 0 && chars > s.maxChars {
		log.Warn("candidate text exceeds size threshold, sending unchanged",
			zap.Int("chars", chars),
			zap.Int("threshold", s.maxChars),
		)
	}

	log.Debug("scoring request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, maxLogPreview)),
	)

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.generator.GenerateText(callCtx, prompt)
	metrics.ScoringDurationSeconds.Observe(time.Since(start).Seconds())

	if err != nil {
		return "", &ScoringError{Index: doc.Ordinal, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &ScoringError{Index: doc.Ordinal, Err: ErrEmptyResponse}
	}

	log.Debug("scoring response",
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", logger.TruncateForLog(text, maxLogPreview)),
	)

	return text, nil
}
