package memory

import (
	"context"
	"sort"
	"sync"

	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/storage"
)

// ExecutionStore is an in-memory implementation of storage.ExecutionStore.
// Used for dry runs and tests.
type ExecutionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ExecutionRecord // keyed by execution ID
}

// NewExecutionStore creates a new in-memory execution store.
func NewExecutionStore() *ExecutionStore {
	return &ExecutionStore{
		data: make(map[string]*domain.ExecutionRecord),
	}
}

// SaveExecution inserts a settled record. Returns ErrDuplicateKey if the
// execution ID already exists.
func (s *ExecutionStore) SaveExecution(_ context.Context, rec *domain.ExecutionRecord) error {
	if rec == nil || rec.ExecutionID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[rec.ExecutionID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *rec
	s.data[rec.ExecutionID] = &cp
	return nil
}

// GetByID retrieves a record by execution ID.
func (s *ExecutionStore) GetByID(_ context.Context, executionID string) (*domain.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.data[executionID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// GetByTarget retrieves all records for a target signature, ordered by
// start time ascending.
func (s *ExecutionStore) GetByTarget(_ context.Context, targetSignature string) ([]*domain.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ExecutionRecord
	for _, rec := range s.data {
		if rec.TargetSignature == targetSignature {
			cp := *rec
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartedAt != result[j].StartedAt {
			return result[i].StartedAt < result[j].StartedAt
		}
		return result[i].ExecutionID < result[j].ExecutionID
	})

	return result, nil
}

// GetRecent retrieves the most recently settled records, newest first.
func (s *ExecutionStore) GetRecent(_ context.Context, limit int) ([]*domain.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ExecutionRecord, 0, len(s.data))
	for _, rec := range s.data {
		cp := *rec
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SettledAt != result[j].SettledAt {
			return result[i].SettledAt > result[j].SettledAt
		}
		return result[i].ExecutionID < result[j].ExecutionID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var _ storage.ExecutionStore = (*ExecutionStore)(nil)
