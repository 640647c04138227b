package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

// MockReportStore is an in-memory implementation of ReportStore for testing
type MockReportStore struct {
	mu      sync.RWMutex
	reports map[string]*domain.DuplicateReport
	byBatch map[string]*domain.DuplicateReport
}

// NewMockReportStore creates a new MockReportStore
func NewMockReportStore() *MockReportStore {
	return &MockReportStore{
		reports: make(map[string]*domain.DuplicateReport),
		byBatch: make(map[string]*domain.DuplicateReport),
	}
}

func (m *MockReportStore) Save(ctx context.Context, report *domain.DuplicateReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.ID] = report
	m.byBatch[report.BatchID] = report
	return nil
}

func (m *MockReportStore) Get(ctx context.Context, id string) (*domain.DuplicateReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	report, ok := m.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return report, nil
}

func (m *MockReportStore) GetByBatch(ctx context.Context, batchID string) (*domain.DuplicateReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	report, ok := m.byBatch[batchID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return report, nil
}

func (m *MockReportStore) List(ctx context.Context, limit, offset int) ([]*domain.DuplicateReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]*domain.DuplicateReport, 0, len(m.reports))
	for _, r := range m.reports {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
