package domain

import "time"

// BatchStatus represents the processing state of a staged batch
type BatchStatus string

const (
	BatchStatusPending    BatchStatus = "pending"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
)

// Batch is a staged set of harvested documents awaiting reconciliation.
// Upstream ingestion stages documents into a batch; the worker picks the
// batch up, deduplicates it and writes the survivors back.
type Batch struct {
	ID          string      `json:"id"`
	Status      BatchStatus `json:"status"`
	Documents   []Document  `json:"documents,omitempty"`
	Error       string      `json:"error,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// BatchResult is the outcome of reconciling one batch.
type BatchResult struct {
	BatchID           string  `json:"batch_id"`
	Success           bool    `json:"success"`
	DocumentsIn       int     `json:"documents_in"`
	DocumentsOut      int     `json:"documents_out"`
	DuplicatesRemoved int     `json:"duplicates_removed"`
	CrossBatchRepeats int     `json:"cross_batch_repeats"`
	Error             string  `json:"error,omitempty"`
	Duration          float64 `json:"duration_seconds"`
}
