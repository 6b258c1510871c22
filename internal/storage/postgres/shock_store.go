package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/storage"
)

// ShockStore implements storage.ShockStore using PostgreSQL.
type ShockStore struct {
	pool *Pool
}

// NewShockStore creates a new ShockStore.
func NewShockStore(pool *Pool) *ShockStore {
	return &ShockStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ShockStore = (*ShockStore)(nil)

const shockColumns = `
	vintage, factor_id, selector, formula, scenario, scale, baseline,
	extreme_period, extreme_value, value,
	low_period, low_value, high_period, high_value`

// InsertBulk adds shocks atomically. Fails entire batch on any duplicate.
func (s *ShockStore) InsertBulk(ctx context.Context, runID string, shocks []*domain.ComputedShock) error {
	if len(shocks) == 0 {
		return nil
	}
	if err := storage.CheckBatch(shocks, storage.ValidateShock, storage.ShockKey); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO computed_shocks (` + shockColumns + `, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	for _, sh := range shocks {
		_, err := tx.Exec(ctx, query,
			sh.Vintage, sh.FactorID, string(sh.Selector), string(sh.Formula), sh.Scenario, sh.Scale, sh.Baseline,
			sh.Extreme.Period.String(), sh.Extreme.Value, sh.Value,
			sh.Low.Period.String(), sh.Low.Value, sh.High.Period.String(), sh.High.Value,
			runID,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert computed shock: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByVintage retrieves all shocks of a vintage.
func (s *ShockStore) GetByVintage(ctx context.Context, vintage string) ([]*domain.ComputedShock, error) {
	query := `SELECT ` + shockColumns + `
		FROM computed_shocks
		WHERE vintage = $1
		ORDER BY factor_id ASC, selector ASC, formula ASC
	`

	rows, err := s.pool.Query(ctx, query, vintage)
	if err != nil {
		return nil, fmt.Errorf("get shocks by vintage: %w", err)
	}
	defer rows.Close()

	return scanShocks(rows)
}

// GetByFactor retrieves all shocks of a factor across vintages.
func (s *ShockStore) GetByFactor(ctx context.Context, factorID string) ([]*domain.ComputedShock, error) {
	query := `SELECT ` + shockColumns + `
		FROM computed_shocks
		WHERE factor_id = $1
		ORDER BY vintage ASC, selector ASC, formula ASC
	`

	rows, err := s.pool.Query(ctx, query, factorID)
	if err != nil {
		return nil, fmt.Errorf("get shocks by factor: %w", err)
	}
	defer rows.Close()

	return scanShocks(rows)
}

// Vintages lists every stored vintage.
func (s *ShockStore) Vintages(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT vintage FROM computed_shocks ORDER BY vintage ASC`)
	if err != nil {
		return nil, fmt.Errorf("list vintages: %w", err)
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
	var runID string
	err := s.pool.QueryRow(ctx,
		`SELECT run_id FROM computed_shocks WHERE vintage = $1 LIMIT 1`, vintage,
	).Scan(&runID)
	if err != nil {
		if isNotFoundError(err) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("get run id: %w", err)
	}
	return runID, nil
}

func scanShocks(rows pgx.Rows) ([]*domain.ComputedShock, error) {
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
			return nil, fmt.Errorf("scan computed shock: %w", err)
		}
		sh.Selector = domain.Selector(selector)
		sh.Formula = domain.FormulaKind(formula)
		if err := parsePeriods(
			periodField{extremePeriod, &sh.Extreme.Period},
			periodField{lowPeriod, &sh.Low.Period},
			periodField{highPeriod, &sh.High.Period},
		); err != nil {
			return nil, err
		}
		result = append(result, &sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate computed shocks: %w", err)
	}
	return result, nil
}

type periodField struct {
	text string
	dst  *domain.Period
}

func parsePeriods(fields ...periodField) error {
	for _, f := range fields {
		if err := f.dst.UnmarshalText([]byte(f.text)); err != nil {
			return fmt.Errorf("decode stored period: %w", err)
		}
	}
	return nil
}
