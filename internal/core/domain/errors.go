package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrBatchInProgress indicates the batch is already being reconciled
	ErrBatchInProgress = errors.New("batch already in progress")

	// ErrBatchNotPending indicates the batch is not in a processable state
	ErrBatchNotPending = errors.New("batch not pending")

	// ErrLockNotAcquired indicates another worker holds the batch lock
	ErrLockNotAcquired = errors.New("lock not acquired")
)
