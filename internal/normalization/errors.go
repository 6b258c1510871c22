package normalization

import "errors"

var (
	// ErrMissingDateColumn is returned when a source table has no Date column.
	ErrMissingDateColumn = errors.New("missing Date column")

	// ErrDuplicatePeriod is returned when a source table repeats a quarter.
	ErrDuplicatePeriod = errors.New("duplicate period")

	// ErrEmptyTable is returned when a historic table has no rows to take T0 from.
	ErrEmptyTable = errors.New("empty table")

	// ErrT0Mismatch is returned when historic tables end on different quarters.
	ErrT0Mismatch = errors.New("historic tables must share the same T0 date")

	// ErrDuplicateFactor is returned when two regional tables carry the same factor name.
	ErrDuplicateFactor = errors.New("duplicate factor name")

	// ErrNoTables is returned when a scenario has no source tables.
	ErrNoTables = errors.New("no scenario tables provided")

	// ErrMissingColumns is returned when registered factors are absent from an input.
	ErrMissingColumns = errors.New("columns missing")
)
