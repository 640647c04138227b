package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

// MockBatchStore is an in-memory implementation of BatchStore for testing
type MockBatchStore struct {
	mu        sync.RWMutex
	batches   map[string]*domain.Batch
	survivors map[string][]domain.Document
}

// NewMockBatchStore creates a new MockBatchStore
func NewMockBatchStore() *MockBatchStore {
	return &MockBatchStore{
		batches:   make(map[string]*domain.Batch),
		survivors: make(map[string][]domain.Document),
	}
}

func (m *MockBatchStore) Get(ctx context.Context, id string) (*domain.Batch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	batch, ok := m.batches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return batch, nil
}

func (m *MockBatchStore) Save(ctx context.Context, batch *domain.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.batches[batch.ID]; exists {
		return domain.ErrAlreadyExists
	}
	m.batches[batch.ID] = batch
	return nil
}

func (m *MockBatchStore) ListPending(ctx context.Context, limit int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pending []*domain.Batch
	for _, b := range m.batches {
		if b.Status == domain.BatchStatusPending {
			pending = append(pending, b)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	ids := make([]string, 0, len(pending))
	for _, b := range pending {
		if limit > 0 && len(ids) >= limit {
			break
		}
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (m *MockBatchStore) MarkProcessing(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch, ok := m.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	if batch.Status != domain.BatchStatusPending {
		return domain.ErrBatchNotPending
	}
	batch.Status = domain.BatchStatusProcessing
	return nil
}

func (m *MockBatchStore) Complete(ctx context.Context, id string, survivors []domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch, ok := m.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	batch.Status = domain.BatchStatusCompleted
	m.survivors[id] = survivors
	return nil
}

func (m *MockBatchStore) Fail(ctx context.Context, id string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch, ok := m.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	batch.Status = domain.BatchStatusFailed
	batch.Error = reason
	return nil
}

// Survivors returns the documents written back for a batch (test helper)
func (m *MockBatchStore) Survivors(id string) []domain.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.survivors[id]
}
