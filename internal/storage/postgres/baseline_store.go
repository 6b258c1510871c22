package postgres

import (
	"context"
	"fmt"

	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/storage"
)

// BaselineStore implements storage.BaselineStore using PostgreSQL.
type BaselineStore struct {
	pool *Pool
}

// NewBaselineStore creates a new BaselineStore.
func NewBaselineStore(pool *Pool) *BaselineStore {
	return &BaselineStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BaselineStore = (*BaselineStore)(nil)

// InsertBulk adds baselines atomically. Fails entire batch on any duplicate.
func (s *BaselineStore) InsertBulk(ctx context.Context, baselines []*domain.Baseline) error {
	if len(baselines) == 0 {
		return nil
	}
	if err := storage.CheckBatch(baselines, storage.ValidateBaseline, storage.BaselineKey); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, b := range baselines {
		_, err := tx.Exec(ctx,
			`INSERT INTO baselines (vintage, factor_id, period, value) VALUES ($1, $2, $3, $4)`,
			b.Vintage, b.FactorID, b.Period.String(), b.Value,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert baseline: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Get retrieves one baseline. Returns ErrNotFound if not exists.
func (s *BaselineStore) Get(ctx context.Context, vintage, factorID string) (*domain.Baseline, error) {
	var (
		b      domain.Baseline
		period string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT vintage, factor_id, period, value FROM baselines WHERE vintage = $1 AND factor_id = $2`,
		vintage, factorID,
	).Scan(&b.Vintage, &b.FactorID, &period, &b.Value)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get baseline: %w", err)
	}
	if err := b.Period.UnmarshalText([]byte(period)); err != nil {
		return nil, fmt.Errorf("decode baseline period: %w", err)
	}
	return &b, nil
}

// GetByVintage retrieves all baselines of a vintage ordered by factor id.
func (s *BaselineStore) GetByVintage(ctx context.Context, vintage string) ([]*domain.Baseline, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT vintage, factor_id, period, value FROM baselines WHERE vintage = $1 ORDER BY factor_id ASC`,
		vintage,
	)
	if err != nil {
		return nil, fmt.Errorf("get baselines by vintage: %w", err)
	}
	defer rows.Close()

	var result []*domain.Baseline
	for rows.Next() {
		var (
			b      domain.Baseline
			period string
		)
		if err := rows.Scan(&b.Vintage, &b.FactorID, &period, &b.Value); err != nil {
			return nil, fmt.Errorf("scan baseline: %w", err)
		}
		if err := b.Period.UnmarshalText([]byte(period)); err != nil {
			return nil, fmt.Errorf("decode baseline period: %w", err)
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate baselines: %w", err)
	}
	return result, nil
}
