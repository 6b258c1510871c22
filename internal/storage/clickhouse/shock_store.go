package clickhouse

import (
	"context"
	"fmt"

	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/storage"
)

// ShockStore implements storage.ShockStore using ClickHouse.
type ShockStore struct {
	conn *Conn
}

// NewShockStore creates a new ShockStore.
func NewShockStore(conn *Conn) *ShockStore {
	return &ShockStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ShockStore = (*ShockStore)(nil)

const shockColumns = `
	vintage, factor_id, selector, formula, scenario, scale, baseline,
	extreme_period, extreme_value, value,
	low_period, low_value, high_period, high_value`

// InsertBulk adds shocks in one batch. Fails entire batch on any duplicate.
func (s *ShockStore) InsertBulk(ctx context.Context, runID string, shocks []*domain.ComputedShock) error {
	if len(shocks) == 0 {
		return nil
	}
	if err := storage.CheckBatch(shocks, storage.ValidateShock, storage.ShockKey); err != nil {
		return err
	}

	// ReplacingMergeTree would silently replace, so check against stored rows.
	for _, sh := range shocks {
		exists, err := s.exists(ctx, sh)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO computed_shocks (`+shockColumns+`, run_id)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, sh := range shocks {
		err = batch.Append(
			sh.Vintage, sh.FactorID, string(sh.Selector), string(sh.Formula), sh.Scenario, sh.Scale, sh.Baseline,
			sh.Extreme.Period.String(), sh.Extreme.Value, sh.Value,
			sh.Low.Period.String(), sh.Low.Value, sh.High.Period.String(), sh.High.Value,
			runID,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByVintage retrieves all shocks of a vintage.
func (s *ShockStore) GetByVintage(ctx context.Context, vintage string) ([]*domain.ComputedShock, error) {
	query := `SELECT ` + shockColumns + `
		FROM computed_shocks FINAL
		WHERE vintage = ?
		ORDER BY factor_id ASC, selector ASC, formula ASC
	`

	rows, err := s.conn.Query(ctx, query, vintage)
	if err != nil {
		return nil, fmt.Errorf("query by vintage: %w", err)
	}
	defer rows.Close()

	return scanShocks(rows)
}

// GetByFactor retrieves all shocks of a factor across vintages.
func (s *ShockStore) GetByFactor(ctx context.Context, factorID string) ([]*domain.ComputedShock, error) {
	query := `SELECT ` + shockColumns + `
		FROM computed_shocks FINAL
		WHERE factor_id = ?
		ORDER BY vintage ASC, selector ASC, formula ASC
	`

	rows, err := s.conn.Query(ctx, query, factorID)
	if err != nil {
		return nil, fmt.Errorf("query by factor: %w", err)
	}
	defer rows.Close()

	return scanShocks(rows)
}

// Vintages lists every stored vintage.
func (s *ShockStore) Vintages(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, `SELECT DISTINCT vintage FROM computed_shocks FINAL ORDER BY vintage ASC`)
	if err != nil {
		return nil, fmt.Errorf("query vintages: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan vintage: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vintages: %w", err)
	}
	return result, nil
}

// RunID returns the run that stored a vintage.
func (s *ShockStore) RunID(ctx context.Context, vintage string) (string, error) {
	rows, err := s.conn.Query(ctx, `SELECT run_id FROM computed_shocks FINAL WHERE vintage = ? LIMIT 1`, vintage)
	if err != nil {
		return "", fmt.Errorf("query run id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("iterate run id: %w", err)
		}
		return "", storage.ErrNotFound
	}
	var runID string
	if err := rows.Scan(&runID); err != nil {
		return "", fmt.Errorf("scan run id: %w", err)
	}
	return runID, nil
}

func (s *ShockStore) exists(ctx context.Context, sh *domain.ComputedShock) (bool, error) {
	query := `
		SELECT count(*) FROM computed_shocks FINAL
		WHERE vintage = ? AND factor_id = ? AND selector = ? AND formula = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, sh.Vintage, sh.FactorID, string(sh.Selector), string(sh.Formula)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanShocks(rows chRows) ([]*domain.ComputedShock, error) {
	var result []*domain.ComputedShock
	for rows.Next() {
		var (
			sh                                   domain.ComputedShock
			selector, formula                    string
			extremePeriod, lowPeriod, highPeriod string
		)
		err := rows.Scan(
			&sh.Vintage, &sh.FactorID, &selector, &formula, &sh.Scenario, &sh.Scale, &sh.Baseline,
			&extremePeriod, &sh.Extreme.Value, &sh.Value,
			&lowPeriod, &sh.Low.Value, &highPeriod, &sh.High.Value,
		)
		if err != nil {
			return nil, fmt.Errorf("scan shock row: %w", err)
		}
		sh.Selector = domain.Selector(selector)
		sh.Formula = domain.FormulaKind(formula)
		for _, p := range []struct {
			text string
			dst  *domain.Period
		}{
			{extremePeriod, &sh.Extreme.Period},
			{lowPeriod, &sh.Low.Period},
			{highPeriod, &sh.High.Period},
		} {
			if err := p.dst.UnmarshalText([]byte(p.text)); err != nil {
				return nil, fmt.Errorf("decode stored period: %w", err)
			}
		}
		result = append(result, &sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shock rows: %w", err)
	}
	return result, nil
}
