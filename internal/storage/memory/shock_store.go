package memory

import (
	"context"
	"sort"
	"sync"

	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/storage"
)

type shockRecord struct {
	runID string
	shock domain.ComputedShock
}

// ShockStore is an in-memory implementation of storage.ShockStore.
type ShockStore struct {
	mu   sync.RWMutex
	data map[string]shockRecord // keyed by storage.ShockKey
}

// NewShockStore creates a new in-memory shock store.
func NewShockStore() *ShockStore {
	return &ShockStore{
		data: make(map[string]shockRecord),
	}
}

// InsertBulk adds shocks atomically. Fails entire batch on any duplicate.
func (s *ShockStore) InsertBulk(_ context.Context, runID string, shocks []*domain.ComputedShock) error {
	if len(shocks) == 0 {
		return nil
	}
	if err := storage.CheckBatch(shocks, storage.ValidateShock, storage.ShockKey); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sh := range shocks {
		if _, exists := s.data[storage.ShockKey(sh)]; exists {
			return storage.ErrDuplicateKey
		}
	}
	for _, sh := range shocks {
		s.data[storage.ShockKey(sh)] = shockRecord{runID: runID, shock: *sh}
	}
	return nil
}

// GetByVintage retrieves all shocks of a vintage.
func (s *ShockStore) GetByVintage(_ context.Context, vintage string) ([]*domain.ComputedShock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ComputedShock
	for _, rec := range s.data {
		if rec.shock.Vintage == vintage {
			c := rec.shock
			result = append(result, &c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return lessShock(result[i], result[j], false)
	})
	return result, nil
}

// GetByFactor retrieves all shocks of a factor across vintages.
func (s *ShockStore) GetByFactor(_ context.Context, factorID string) ([]*domain.ComputedShock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ComputedShock
	for _, rec := range s.data {
		if rec.shock.FactorID == factorID {
			c := rec.shock
			result = append(result, &c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return lessShock(result[i], result[j], true)
	})
	return result, nil
}

// Vintages lists every stored vintage.
func (s *ShockStore) Vintages(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var result []string
	for _, rec := range s.data {
		if _, ok := seen[rec.shock.Vintage]; ok {
			continue
		}
		seen[rec.shock.Vintage] = struct{}{}
		result = append(result, rec.shock.Vintage)
	}
	sort.Strings(result)
	return result, nil
}

// RunID returns the run that stored a vintage.
func (s *ShockStore) RunID(_ context.Context, vintage string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.data {
		if rec.shock.Vintage == vintage {
			return rec.runID, nil
		}
	}
	return "", storage.ErrNotFound
}

// lessShock orders by (factor_id, selector, formula), or by vintage first when byVintage is set.
func lessShock(a, b *domain.ComputedShock, byVintage bool) bool {
	if byVintage && a.Vintage != b.Vintage {
		return a.Vintage < b.Vintage
	}
	if a.FactorID != b.FactorID {
		return a.FactorID < b.FactorID
	}
	if a.Selector != b.Selector {
		return a.Selector < b.Selector
	}
	return a.Formula < b.Formula
}

var _ storage.ShockStore = (*ShockStore)(nil)
