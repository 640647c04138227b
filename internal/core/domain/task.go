package domain

import (
	"time"

	"github.com/google/uuid"
)

// GenerateID creates a unique ID for tasks, batches and reports.
func GenerateID() string {
	return uuid.NewString()
}

// TaskType identifies the type of background task
type TaskType string

const (
	// TaskTypeDedupBatch deduplicates a specific staged batch
	TaskTypeDedupBatch TaskType = "dedup_batch"
	// TaskTypeDedupPending deduplicates all pending batches
	TaskTypeDedupPending TaskType = "dedup_pending"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task represents a background job to be processed by workers
type Task struct {
	// ID is the unique identifier for this task
	ID string `json:"id"`

	// Type identifies what kind of task this is
	Type TaskType `json:"type"`

	// Payload contains task-specific data
	// For dedup_batch: {"batch_id": "batch-123"}
	// For dedup_pending: {} (empty)
	Payload map[string]string `json:"payload"`

	// Status is the current state of the task
	Status TaskStatus `json:"status"`

	// Priority determines processing order (higher = more urgent)
	// Default is 0, range is -100 to 100
	Priority int `json:"priority"`

	// Attempts is how many times this task has been attempted
	Attempts int `json:"attempts"`

	// MaxAttempts is the maximum retry count before giving up
	MaxAttempts int `json:"max_attempts"`

	// Error contains the last error message if failed
	Error string `json:"error,omitempty"`

	// CreatedAt is when the task was enqueued
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified
	UpdatedAt time.Time `json:"updated_at"`

	// StartedAt is when processing began (nil if not started)
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when processing finished (nil if not complete)
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ScheduledFor is when the task should be processed (for delayed tasks)
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewTask creates a new task with default values
func NewTask(taskType TaskType, payload map[string]string) *Task {
	now := time.Now()
	return &Task{
		ID:           GenerateID(),
		Type:         taskType,
		Payload:      payload,
		Status:       TaskStatusPending,
		Priority:     0,
		Attempts:     0,
		MaxAttempts:  3,
		CreatedAt:    now,
		UpdatedAt:    now,
		ScheduledFor: now,
	}
}

// NewDedupBatchTask creates a task to deduplicate a specific batch
func NewDedupBatchTask(batchID string) *Task {
	return NewTask(TaskTypeDedupBatch, map[string]string{
		"batch_id": batchID,
	})
}

// NewDedupPendingTask creates a task to deduplicate all pending batches
func NewDedupPendingTask() *Task {
	return NewTask(TaskTypeDedupPending, nil)
}

// MarkProcessing transitions the task to processing and counts the attempt
func (t *Task) MarkProcessing() {
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.StartedAt = &now
	t.UpdatedAt = now
	t.Attempts++
}

// MarkCompleted transitions the task to completed
func (t *Task) MarkCompleted() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// MarkFailed transitions the task to failed with a reason
func (t *Task) MarkFailed(reason string) {
	now := time.Now()
	t.Status = TaskStatusFailed
	t.Error = reason
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// CanRetry reports whether the task has attempts left
func (t *Task) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// BatchID extracts the batch_id from the payload (for dedup_batch tasks)
func (t *Task) BatchID() string {
	if t.Payload == nil {
		return ""
	}
	return t.Payload["batch_id"]
}
