package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"scenario-shock-lab/internal/storage/postgres"
)

// RunPostgresMigrations applies the embedded shock history schema in lexical
// file order and checks that the shock tables exist. Every file uses
// IF NOT EXISTS, so reruns are safe.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	files, err := load(PostgresFS, "postgres")
	if err != nil {
		return err
	}
	for _, m := range files {
		// simple protocol: one Exec runs the whole script
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}

	rows, err := pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema()`)
	if err != nil {
		return fmt.Errorf("list postgres tables: %w", err)
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("list postgres tables: %w", err)
	}
	return checkTables(tables)
}
