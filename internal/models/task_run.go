package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskRun is the audit record of one analysis request. It never holds resume
// text, the job description or model output.
type TaskRun struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Status         TaskStatus `gorm:"not null;default:'processing'" json:"status"`
	CandidateCount int        `gorm:"not null;default:0" json:"candidate_count"`
	ErrorMessage   *string    `gorm:"type:text" json:"error_message,omitempty"`
	DurationMs     int64      `gorm:"not null;default:0" json:"duration_ms"`
	CreatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TaskRun) TableName() string {
	return "task_runs"
}
