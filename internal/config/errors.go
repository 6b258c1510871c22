package config

import "errors"

var (
	// ErrInvalidConfig is returned when a configuration value is missing or inconsistent.
	ErrInvalidConfig = errors.New("invalid config")
)
