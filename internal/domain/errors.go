package domain

import "fmt"

// FactorError is a failure local to one factor (and optionally one metric).
// Batch stages collect these instead of aborting the run.
type FactorError struct {
	FactorID string
	Metric   string // metric kind, empty when the whole factor failed
	Err      error
}

func (e *FactorError) Error() string {
	if e.Metric == "" {
		return fmt.Sprintf("factor %s: %v", e.FactorID, e.Err)
	}
	return fmt.Sprintf("factor %s [%s]: %v", e.FactorID, e.Metric, e.Err)
}

func (e *FactorError) Unwrap() error {
	return e.Err
}
