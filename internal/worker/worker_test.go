package worker

import (
	"context"
	"testing"
	"time"

	"github.com/lexharvest/dedup-core/internal/core/domain"
	"github.com/lexharvest/dedup-core/internal/core/ports/driven/mocks"
	"github.com/lexharvest/dedup-core/internal/core/services"
)

func newTestWorker(batches *mocks.MockBatchStore, queue *mocks.MockTaskQueue) *Worker {
	orchestrator := services.NewReconcileOrchestrator(services.ReconcileOrchestratorConfig{
		BatchStore:  batches,
		ReportStore: mocks.NewMockReportStore(),
	})
	return NewWorker(WorkerConfig{
		TaskQueue:      queue,
		Orchestrator:   orchestrator,
		Concurrency:    1,
		DequeueTimeout: 1,
	})
}

func stagePendingBatch(t *testing.T, batches *mocks.MockBatchStore, id string, docs []domain.Document) {
	t.Helper()
	err := batches.Save(context.Background(), &domain.Batch{
		ID:        id,
		Status:    domain.BatchStatusPending,
		Documents: docs,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("stage batch: %v", err)
	}
}

func waitForStatus(t *testing.T, queue *mocks.MockTaskQueue, taskID string, want domain.TaskStatus) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		task, err := queue.GetTask(context.Background(), taskID)
		if err == nil && task.Status == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	task, _ := queue.GetTask(context.Background(), taskID)
	t.Fatalf("task %s never reached %s, last status %s", taskID, want, task.Status)
}

func TestWorkerProcessesDedupBatchTask(t *testing.T) {
	batches := mocks.NewMockBatchStore()
	queue := mocks.NewMockTaskQueue()
	stagePendingBatch(t, batches, "batch-1", []domain.Document{
		{ID: "a", Title: "Eerste", ContentFingerprint: "f1"},
		{ID: "b", Title: "Tweede", ContentFingerprint: "f1"},
	})

	task := domain.NewDedupBatchTask("batch-1")
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := newTestWorker(batches, queue)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	waitForStatus(t, queue, task.ID, domain.TaskStatusCompleted)

	batch, err := batches.Get(context.Background(), "batch-1")
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if batch.Status != domain.BatchStatusCompleted {
		t.Errorf("batch status = %s, want %s", batch.Status, domain.BatchStatusCompleted)
	}
	if got := batches.Survivors("batch-1"); len(got) != 1 {
		t.Errorf("got %d survivors, want 1", len(got))
	}
}

func TestWorkerProcessesDedupPendingTask(t *testing.T) {
	batches := mocks.NewMockBatchStore()
	queue := mocks.NewMockTaskQueue()
	stagePendingBatch(t, batches, "batch-1", []domain.Document{{ID: "a", Title: "Een"}})
	stagePendingBatch(t, batches, "batch-2", []domain.Document{{ID: "b", Title: "Twee"}})

	task := domain.NewDedupPendingTask()
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := newTestWorker(batches, queue)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	waitForStatus(t, queue, task.ID, domain.TaskStatusCompleted)

	for _, id := range []string{"batch-1", "batch-2"} {
		batch, _ := batches.Get(context.Background(), id)
		if batch.Status != domain.BatchStatusCompleted {
			t.Errorf("batch %s status = %s, want completed", id, batch.Status)
		}
	}
}

func TestWorkerNacksFailedTask(t *testing.T) {
	batches := mocks.NewMockBatchStore()
	queue := mocks.NewMockTaskQueue()
	// No batch staged: reconciliation fails with not found

	task := domain.NewDedupBatchTask("missing")
	task.MaxAttempts = 1
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := newTestWorker(batches, queue)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	waitForStatus(t, queue, task.ID, domain.TaskStatusFailed)

	got, _ := queue.GetTask(context.Background(), task.ID)
	if got.Error == "" {
		t.Error("failed task should carry the error reason")
	}
}

func TestWorkerStartStop(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	w := newTestWorker(mocks.NewMockBatchStore(), queue)

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// Second start is a no-op
	if err := w.Start(ctx); err != nil {
		t.Fatalf("second Start() error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop() did not return")
	}
}
