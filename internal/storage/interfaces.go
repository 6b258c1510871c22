package storage

import (
	"context"

	"scenario-shock-lab/internal/domain"
)

// ShockStore provides access to computed_shocks storage.
// A vintage's shocks are written once; reruns need a fresh store or a new vintage.
type ShockStore interface {
	// InsertBulk adds shocks atomically, stamped with runID.
	// Returns ErrDuplicateKey if any (vintage, factor_id, selector, formula) exists.
	InsertBulk(ctx context.Context, runID string, shocks []*domain.ComputedShock) error

	// GetByVintage retrieves all shocks of a vintage, ordered by (factor_id, selector, formula).
	GetByVintage(ctx context.Context, vintage string) ([]*domain.ComputedShock, error)

	// GetByFactor retrieves all shocks of a factor, ordered by (vintage, selector, formula).
	GetByFactor(ctx context.Context, factorID string) ([]*domain.ComputedShock, error)

	// Vintages lists every stored vintage in ascending order.
	Vintages(ctx context.Context) ([]string, error)

	// RunID returns the run that stored a vintage. Returns ErrNotFound if the vintage has no shocks.
	RunID(ctx context.Context, vintage string) (string, error)
}

// BaselineStore provides access to baselines (T0) storage.
type BaselineStore interface {
	// InsertBulk adds baselines atomically. Returns ErrDuplicateKey if any (vintage, factor_id) exists.
	InsertBulk(ctx context.Context, baselines []*domain.Baseline) error

	// Get retrieves one baseline. Returns ErrNotFound if not exists.
	Get(ctx context.Context, vintage, factorID string) (*domain.Baseline, error)

	// GetByVintage retrieves all baselines of a vintage, ordered by factor_id.
	GetByVintage(ctx context.Context, vintage string) ([]*domain.Baseline, error)
}
