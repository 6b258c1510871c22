package memory

import (
	"context"
	"sort"
	"sync"

	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/storage"
)

// BaselineStore is an in-memory implementation of storage.BaselineStore.
type BaselineStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Baseline // keyed by storage.BaselineKey
}

// NewBaselineStore creates a new in-memory baseline store.
func NewBaselineStore() *BaselineStore {
	return &BaselineStore{
		data: make(map[string]*domain.Baseline),
	}
}

// InsertBulk adds baselines atomically. Fails entire batch on any duplicate.
func (s *BaselineStore) InsertBulk(_ context.Context, baselines []*domain.Baseline) error {
	if len(baselines) == 0 {
		return nil
	}
	if err := storage.CheckBatch(baselines, storage.ValidateBaseline, storage.BaselineKey); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range baselines {
		if _, exists := s.data[storage.BaselineKey(b)]; exists {
			return storage.ErrDuplicateKey
		}
	}
	for _, b := range baselines {
		bCopy := *b
		s.data[storage.BaselineKey(b)] = &bCopy
	}
	return nil
}

// Get retrieves one baseline. Returns ErrNotFound if not exists.
func (s *BaselineStore) Get(_ context.Context, vintage, factorID string) (*domain.Baseline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.data[vintage+"|"+factorID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	bCopy := *b
	return &bCopy, nil
}

// GetByVintage retrieves all baselines of a vintage ordered by factor id.
func (s *BaselineStore) GetByVintage(_ context.Context, vintage string) ([]*domain.Baseline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Baseline
	for _, b := range s.data {
		if b.Vintage == vintage {
			bCopy := *b
			result = append(result, &bCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].FactorID < result[j].FactorID
	})
	return result, nil
}

var _ storage.BaselineStore = (*BaselineStore)(nil)
