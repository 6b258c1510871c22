// Package migrations embeds and applies the shock history schemas.
package migrations

import (
	"embed"
	"errors"
)

// PostgresFS embeds all PostgreSQL migration files.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds all ClickHouse migration files.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS

// ShockTables are the tables a migrated backend must hold.
var ShockTables = []string{"computed_shocks", "baselines"}

// ErrSchemaIncomplete is returned when a table of ShockTables is absent after migrating.
var ErrSchemaIncomplete = errors.New("shock history schema incomplete")
