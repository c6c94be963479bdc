package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/logger"
	"alfredoptarigan/resume-matcher/internal/metrics"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

// Analysis is the outcome of a successful batch: one result per uploaded
// file, in submission order.
type Analysis struct {
	TaskID  uuid.UUID
	Results []models.ScoringResult
}

type MatcherService interface {
	Analyze(ctx context.Context, jobDescription string, files []models.UploadedFile) (*Analysis, error)
}

type matcherService struct {
	storage       StorageService
	extractor     ExtractorService
	scorer        ScorerService
	promptBuilder *PromptBuilder
	pool          *CandidatePool
	taskRuns      repositories.TaskRunRepository
	logger        *zap.Logger
	newTaskID     func() uuid.UUID
}

func NewMatcherService(
	storage StorageService,
	extractor ExtractorService,
	scorer ScorerService,
	pool *CandidatePool,
	taskRuns repositories.TaskRunRepository,
	log *zap.Logger,
) MatcherService {
	if taskRuns == nil {
		taskRuns = repositories.NewNoopTaskRunRepository()
	}
	if pool == nil {
		pool = NewCandidatePool(1)
	}
	return &matcherService{
		storage:       storage,
		extractor:     extractor,
		scorer:        scorer,
		promptBuilder: NewPromptBuilder(),
		pool:          pool,
		taskRuns:      taskRuns,
		logger:        logger.OrNop(log),
		newTaskID:     uuid.New,
	}
}

// Analyze scores every file against jobDescription. Any candidate failure
// aborts the batch and no results are returned. Working files are removed
// before Analyze returns, whatever the outcome.
func (m *matcherService) Analyze(ctx context.Context, jobDescription string, files []models.UploadedFile) (*Analysis, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	start := time.Now()
	taskID := m.newTaskID()
	log := m.logger.With(zap.String("task_id", taskID.String()))

	log.Info("start resume analysis",
		zap.Int("files", len(files)),
		zap.Int("concurrency", m.pool.Concurrency()),
	)

	if err := m.taskRuns.Start(taskID, len(files)); err != nil {
		log.Warn("failed to record task start", zap.Error(err))
	}

	uploads := make([]models.UploadedFile, len(files))
	copy(uploads, files)

	var paths []string
	defer func() {
		m.cleanup(log, paths)
	}()

	for i := range uploads {
		uploads[i].TaskID = taskID

		path, err := m.storage.SaveUpload(taskID, i+1, uploads[i].Filename, uploads[i].Content)
		if err != nil {
			err = fmt.Errorf("persist upload %q: %w", uploads[i].Filename, err)
			m.finish(log, taskID, start, err)
			return nil, err
		}
		paths = append(paths, path)
	}

	tmpl := m.promptBuilder.ComposeMatchPrompt(jobDescription)
	results := make([]models.ScoringResult, len(uploads))

	err := m.pool.Run(ctx, len(uploads), func(ctx context.Context, index int) error {
		text, err := m.processCandidate(ctx, log, tmpl, uploads[index], paths[index], index+1)
		if err != nil {
			return err
		}
		results[index] = models.ScoringResult{Ordinal: index + 1, Text: text}
		return nil
	})
	if err != nil {
		m.finish(log, taskID, start, err)
		return nil, err
	}

	m.finish(log, taskID, start, nil)

	return &Analysis{TaskID: taskID, Results: results}, nil
}

func (m *matcherService) processCandidate(
	ctx context.Context,
	log *zap.Logger,
	tmpl PromptTemplate,
	file models.UploadedFile,
	path string,
	ordinal int,
) (string, error) {
	format := FormatFromPath(path)
	log = log.With(
		zap.Int("candidate", ordinal),
		zap.String("filename", file.Filename),
		zap.Stringer("format", format),
	)

	text, err := m.extractor.Extract(path)
	if err != nil {
		metrics.CandidatesTotal.WithLabelValues(format.String(), "extraction_failed").Inc()
		return "", retagExtractionError(err, file.Filename)
	}

	doc := BuildCandidate(ordinal, text)
	log.Info("analyzing candidate", zap.Int("chars", len(doc.Content)))

	result, err := m.scorer.Score(ctx, tmpl, doc)
	if err != nil {
		metrics.CandidatesTotal.WithLabelValues(format.String(), "scoring_failed").Inc()
		return "", err
	}

	metrics.CandidatesTotal.WithLabelValues(format.String(), "scored").Inc()
	return result, nil
}

// retagExtractionError reports the client's filename instead of the working
// file name.
func retagExtractionError(err error, filename string) error {
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return &ExtractionError{Filename: filename, Err: extErr.Err}
	}
	return &ExtractionError{Filename: filename, Err: err}
}

func (m *matcherService) finish(log *zap.Logger, taskID uuid.UUID, start time.Time, err error) {
	elapsed := time.Since(start)

	if err == nil {
		metrics.BatchesTotal.WithLabelValues(string(models.TaskStatusCompleted)).Inc()
		log.Info("resume analysis completed", zap.Duration("elapsed", elapsed))
		if recErr := m.taskRuns.Complete(taskID, elapsed); recErr != nil {
			log.Warn("failed to record task completion", zap.Error(recErr))
		}
		return
	}

	metrics.BatchesTotal.WithLabelValues(string(models.TaskStatusFailed)).Inc()

	fields := []zap.Field{zap.Error(err), zap.Duration("elapsed", elapsed)}
	var extErr *ExtractionError
	var scoreErr *ScoringError
	switch {
	case errors.As(err, &extErr):
		fields = append(fields, zap.String("failed_file", extErr.Filename))
	case errors.As(err, &scoreErr):
		fields = append(fields, zap.Int("failed_candidate", scoreErr.Index))
	}
	log.Error("processing error", fields...)

	if recErr := m.taskRuns.Fail(taskID, err.Error(), elapsed); recErr != nil {
		log.Warn("failed to record task failure", zap.Error(recErr))
	}
}

func (m *matcherService) cleanup(log *zap.Logger, paths []string) {
	for _, path := range paths {
		if err := m.storage.DeleteFile(path); err != nil {
			metrics.CleanupFailuresTotal.Inc()
			log.Warn("failed to delete working file", zap.String("path", path), zap.Error(err))
		}
	}
}
