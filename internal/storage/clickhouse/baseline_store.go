package clickhouse

import (
	"context"
	"fmt"

	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/storage"
)

// BaselineStore implements storage.BaselineStore using ClickHouse.
type BaselineStore struct {
	conn *Conn
}

// NewBaselineStore creates a new BaselineStore.
func NewBaselineStore(conn *Conn) *BaselineStore {
	return &BaselineStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BaselineStore = (*BaselineStore)(nil)

// InsertBulk adds baselines in one batch. Fails entire batch on any duplicate.
func (s *BaselineStore) InsertBulk(ctx context.Context, baselines []*domain.Baseline) error {
	if len(baselines) == 0 {
		return nil
	}
	if err := storage.CheckBatch(baselines, storage.ValidateBaseline, storage.BaselineKey); err != nil {
		return err
	}

	for _, b := range baselines {
		var count uint64
		err := s.conn.QueryRow(ctx,
			`SELECT count(*) FROM baselines FINAL WHERE vintage = ? AND factor_id = ?`,
			b.Vintage, b.FactorID,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if count > 0 {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO baselines (vintage, factor_id, period, value)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	for _, b := range baselines {
		if err := batch.Append(b.Vintage, b.FactorID, b.Period.String(), b.Value); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Get retrieves one baseline. Returns ErrNotFound if not exists.
func (s *BaselineStore) Get(ctx context.Context, vintage, factorID string) (*domain.Baseline, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT vintage, factor_id, period, value FROM baselines FINAL WHERE vintage = ? AND factor_id = ? LIMIT 1`,
		vintage, factorID,
	)
	if err != nil {
		return nil, fmt.Errorf("query baseline: %w", err)
	}
	defer rows.Close()

	result, err := scanBaselines(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, storage.ErrNotFound
	}
	return result[0], nil
}

// GetByVintage retrieves all baselines of a vintage ordered by factor id.
func (s *BaselineStore) GetByVintage(ctx context.Context, vintage string) ([]*domain.Baseline, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT vintage, factor_id, period, value FROM baselines FINAL WHERE vintage = ? ORDER BY factor_id ASC`,
		vintage,
	)
	if err != nil {
		return nil, fmt.Errorf("query baselines by vintage: %w", err)
	}
	defer rows.Close()

	return scanBaselines(rows)
}

func scanBaselines(rows chRows) ([]*domain.Baseline, error) {
	var result []*domain.Baseline
	for rows.Next() {
		var (
			b      domain.Baseline
			period string
		)
		if err := rows.Scan(&b.Vintage, &b.FactorID, &period, &b.Value); err != nil {
			return nil, fmt.Errorf("scan baseline row: %w", err)
		}
		if err := b.Period.UnmarshalText([]byte(period)); err != nil {
			return nil, fmt.Errorf("decode baseline period: %w", err)
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate baseline rows: %w", err)
	}
	return result, nil
}
