package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-matcher/internal/models"
)

type TaskRunRepository interface {
	Start(id uuid.UUID, candidateCount int) error
	Complete(id uuid.UUID, duration time.Duration) error
	Fail(id uuid.UUID, errorMsg string, duration time.Duration) error
	FindByID(id uuid.UUID) (*models.TaskRun, error)
}

type taskRunRepository struct {
	db *gorm.DB
}

func NewTaskRunRepository(db *gorm.DB) TaskRunRepository {
	return &taskRunRepository{db: db}
}

func (r *taskRunRepository) Start(id uuid.UUID, candidateCount int) error {
	run := &models.TaskRun{
		ID:             id,
		Status:         models.TaskStatusProcessing,
		CandidateCount: candidateCount,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create task run: %w", err)
	}
	return nil
}

func (r *taskRunRepository) Complete(id uuid.UUID, duration time.Duration) error {
	return r.finish(id, map[string]interface{}{
		"status":      models.TaskStatusCompleted,
		"duration_ms": duration.Milliseconds(),
		"updated_at":  time.Now(),
	})
}

func (r *taskRunRepository) Fail(id uuid.UUID, errorMsg string, duration time.Duration) error {
	return r.finish(id, map[string]interface{}{
		"status":        models.TaskStatusFailed,
		"error_message": errorMsg,
		"duration_ms":   duration.Milliseconds(),
		"updated_at":    time.Now(),
	})
}

func (r *taskRunRepository) finish(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.TaskRun{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update task run: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("task run not found")
	}

	return nil
}

func (r *taskRunRepository) FindByID(id uuid.UUID) (*models.TaskRun, error) {
	var run models.TaskRun
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("task run not found")
		}
		return nil, fmt.Errorf("failed to find task run: %w", err)
	}
	return &run, nil
}

// NewNoopTaskRunRepository is used when no database is configured.
func NewNoopTaskRunRepository() TaskRunRepository {
	return noopTaskRunRepository{}
}

type noopTaskRunRepository struct{}

func (noopTaskRunRepository) Start(uuid.UUID, int) error                  { return nil }
func (noopTaskRunRepository) Complete(uuid.UUID, time.Duration) error     { return nil }
func (noopTaskRunRepository) Fail(uuid.UUID, string, time.Duration) error { return nil }

func (noopTaskRunRepository) FindByID(uuid.UUID) (*models.TaskRun, error) {
	return nil, fmt.Errorf("task run not found")
}
