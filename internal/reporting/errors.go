package reporting

import "errors"

var (
	// ErrUnknownFormat is returned for an output format other than md, csv or xlsx.
	ErrUnknownFormat = errors.New("unknown report format")

	// ErrNoCurrentShock is returned when a table row has no shock for its factor.
	ErrNoCurrentShock = errors.New("no current shock for factor")
)
