package mocks

import (
	"context"
	"sync"
)

// MockFingerprintIndex is an in-memory implementation of FingerprintIndex
// for testing
type MockFingerprintIndex struct {
	mu   sync.RWMutex
	seen map[string]bool
}

// NewMockFingerprintIndex creates a new MockFingerprintIndex
func NewMockFingerprintIndex() *MockFingerprintIndex {
	return &MockFingerprintIndex{
		seen: make(map[string]bool),
	}
}

func (m *MockFingerprintIndex) Seen(ctx context.Context, fingerprints []string) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]bool)
	for _, fp := range fingerprints {
		if m.seen[fp] {
			out[fp] = true
		}
	}
	return out, nil
}

func (m *MockFingerprintIndex) Add(ctx context.Context, fingerprints []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, fp := range fingerprints {
		m.seen[fp] = true
	}
	return nil
}

func (m *MockFingerprintIndex) Ping(ctx context.Context) error {
	return nil
}
