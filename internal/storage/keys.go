package storage

import (
	"fmt"

	"scenario-shock-lab/internal/domain"
)

// ShockKey is the natural key of a stored shock.
func ShockKey(s *domain.ComputedShock) string {
	return fmt.Sprintf("%s|%s|%s|%s", s.Vintage, s.FactorID, s.Selector, s.Formula)
}

// BaselineKey is the natural key of a stored baseline.
func BaselineKey(b *domain.Baseline) string {
	return b.Vintage + "|" + b.FactorID
}

// ValidateShock checks the key fields of a shock.
func ValidateShock(s *domain.ComputedShock) error {
	if s == nil || s.Vintage == "" || s.FactorID == "" || !s.Selector.Valid() || !s.Formula.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// ValidateBaseline checks the key fields of a baseline.
func ValidateBaseline(b *domain.Baseline) error {
	if b == nil || b.Vintage == "" || b.FactorID == "" {
		return ErrInvalidInput
	}
	return nil
}

// CheckBatch validates a batch and rejects intra-batch duplicate keys.
func CheckBatch[T any](items []*T, validate func(*T) error, key func(*T) string) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if err := validate(it); err != nil {
			return err
		}
		k := key(it)
		if _, dup := seen[k]; dup {
			return ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}
	return nil
}
