package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexharvest/dedup-core/internal/core/domain"
	"github.com/lexharvest/dedup-core/internal/core/ports/driven"
	"github.com/lexharvest/dedup-core/internal/core/ports/driving"
	"github.com/lexharvest/dedup-core/internal/runtime"
)

// batchLockTTL bounds how long a crashed worker can leave a batch locked.
const batchLockTTL = 10 * time.Minute

// ReconcileOrchestrator coordinates the reconciliation of staged batches.
// It implements the batch flow around the pure dedup engine:
//  1. Lock the batch (multi-worker deployments)
//  2. Load the staged documents
//  3. Mark the batch processing
//  4. Deduplicate with the current runtime options
//  5. Flag cross-batch fingerprint repeats via the fingerprint index
//  6. Write survivors back and persist the duplicate report
type ReconcileOrchestrator struct {
	batchStore   driven.BatchStore
	reportStore  driven.ReportStore
	fingerprints driven.FingerprintIndex
	lock         driven.DistributedLock
	dedup        driving.DedupService
	config       *runtime.Config
	logger       *slog.Logger
}

// ReconcileOrchestratorConfig holds dependencies for ReconcileOrchestrator.
// Fingerprints and Lock are optional; without them cross-batch flagging and
// multi-worker coordination are skipped.
type ReconcileOrchestratorConfig struct {
	BatchStore   driven.BatchStore
	ReportStore  driven.ReportStore
	Fingerprints driven.FingerprintIndex
	Lock         driven.DistributedLock
	Dedup        driving.DedupService
	Config       *runtime.Config
	Logger       *slog.Logger
}

// NewReconcileOrchestrator creates a new reconcile orchestrator.
func NewReconcileOrchestrator(cfg ReconcileOrchestratorConfig) *ReconcileOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	config := cfg.Config
	if config == nil {
		config = runtime.NewConfig()
	}
	dedup := cfg.Dedup
	if dedup == nil {
		dedup = NewDedupServiceWithPolicy(config.Policy())
	}

	return &ReconcileOrchestrator{
		batchStore:   cfg.BatchStore,
		reportStore:  cfg.ReportStore,
		fingerprints: cfg.Fingerprints,
		lock:         cfg.Lock,
		dedup:        dedup,
		config:       config,
		logger:       logger,
	}
}

// ReconcileBatch resolves a single staged batch.
// This is the main entry point for the worker.
func (o *ReconcileOrchestrator) ReconcileBatch(ctx context.Context, batchID string) (*domain.BatchResult, error) {
	startTime := time.Now()

	o.logger.Info("starting batch reconciliation", "batch_id", batchID)

	// Step 1: lock the batch so only one worker resolves it
	if o.lock != nil {
		acquired, err := o.lock.Acquire(ctx, "batch:"+batchID, batchLockTTL)
		if err != nil {
			return o.failBatch(ctx, batchID, startTime, fmt.Errorf("acquire batch lock: %w", err))
		}
		if !acquired {
			return nil, domain.ErrBatchInProgress
		}
		defer func() {
			if err := o.lock.Release(ctx, "batch:"+batchID); err != nil {
				o.logger.Warn("failed to release batch lock", "batch_id", batchID, "error", err)
			}
		}()
	}

	// Step 2: load the staged documents
	batch, err := o.batchStore.Get(ctx, batchID)
	if err != nil {
		return o.failBatch(ctx, batchID, startTime, fmt.Errorf("get batch: %w", err))
	}

	// Step 3: claim the batch
	if err := o.batchStore.MarkProcessing(ctx, batchID); err != nil {
		return o.failBatch(ctx, batchID, startTime, fmt.Errorf("mark batch processing: %w", err))
	}

	// Step 4: deduplicate with the current runtime options
	opts := o.config.Options()
	result, err := o.dedup.Deduplicate(ctx, batch.Documents, &opts)
	if err != nil {
		return o.failBatch(ctx, batchID, startTime, fmt.Errorf("deduplicate: %w", err))
	}

	report := domain.NewDuplicateReport(batchID, len(batch.Documents), result)

	// Step 5: flag fingerprints already seen by earlier batches
	if o.fingerprints != nil {
		report.CrossBatchRepeats = o.flagCrossBatchRepeats(ctx, result.Documents)
	}

	// Step 6: write survivors back and persist the report
	if err := o.batchStore.Complete(ctx, batchID, result.Documents); err != nil {
		return o.failBatch(ctx, batchID, startTime, fmt.Errorf("complete batch: %w", err))
	}
	if err := o.reportStore.Save(ctx, report); err != nil {
		// The batch itself succeeded; a lost report is an observability gap,
		// not a reconciliation failure.
		o.logger.Warn("failed to save duplicate report", "batch_id", batchID, "error", err)
	}

	duration := time.Since(startTime).Seconds()

	o.logger.Info("batch reconciliation completed",
		"batch_id", batchID,
		"duration_seconds", duration,
		"documents_in", len(batch.Documents),
		"documents_out", len(result.Documents),
		"duplicates_removed", result.DuplicatesRemoved,
		"cross_batch_repeats", len(report.CrossBatchRepeats),
	)

	return &domain.BatchResult{
		BatchID:           batchID,
		Success:           true,
		DocumentsIn:       len(batch.Documents),
		DocumentsOut:      len(result.Documents),
		DuplicatesRemoved: result.DuplicatesRemoved,
		CrossBatchRepeats: len(report.CrossBatchRepeats),
		Duration:          duration,
	}, nil
}

// ReconcilePending resolves every batch currently awaiting reconciliation.
func (o *ReconcileOrchestrator) ReconcilePending(ctx context.Context) ([]*domain.BatchResult, error) {
	ids, err := o.batchStore.ListPending(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list pending batches: %w", err)
	}

	var results []*domain.BatchResult
	for _, id := range ids {
		result, err := o.ReconcileBatch(ctx, id)
		if err != nil {
			if err == domain.ErrBatchInProgress {
				continue // another worker got there first
			}
			o.logger.Error("batch reconciliation failed", "batch_id", id, "error", err)
			results = append(results, &domain.BatchResult{
				BatchID: id,
				Success: false,
				Error:   err.Error(),
			})
			continue
		}
		results = append(results, result)
	}

	return results, nil
}

// flagCrossBatchRepeats returns the survivor fingerprints an earlier batch
// already recorded, and records this batch's fingerprints for future runs.
// Index failures degrade to "no repeats flagged"; they never fail the batch.
func (o *ReconcileOrchestrator) flagCrossBatchRepeats(ctx context.Context, docs []domain.Document) []string {
	fingerprints := make([]string, 0, len(docs))
	for i := range docs {
		if docs[i].ContentFingerprint != "" {
			fingerprints = append(fingerprints, docs[i].ContentFingerprint)
		}
	}
	if len(fingerprints) == 0 {
		return nil
	}

	seen, err := o.fingerprints.Seen(ctx, fingerprints)
	if err != nil {
		o.logger.Warn("fingerprint index lookup failed", "error", err)
		return nil
	}

	var repeats []string
	for _, fp := range fingerprints {
		if seen[fp] {
			repeats = append(repeats, fp)
		}
	}

	if err := o.fingerprints.Add(ctx, fingerprints); err != nil {
		o.logger.Warn("fingerprint index update failed", "error", err)
	}

	return repeats
}

// failBatch records a failed reconciliation and returns the error result.
func (o *ReconcileOrchestrator) failBatch(ctx context.Context, batchID string, startTime time.Time, cause error) (*domain.BatchResult, error) {
	o.logger.Error("batch reconciliation failed", "batch_id", batchID, "error", cause)

	if err := o.batchStore.Fail(ctx, batchID, cause.Error()); err != nil {
		o.logger.Warn("failed to mark batch failed", "batch_id", batchID, "error", err)
	}

	return &domain.BatchResult{
		BatchID:  batchID,
		Success:  false,
		Error:    cause.Error(),
		Duration: time.Since(startTime).Seconds(),
	}, cause
}
