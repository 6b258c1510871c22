// Package registry maps raw source column names to canonical factors.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"scenario-shock-lab/internal/config"
	"scenario-shock-lab/internal/domain"
)

var (
	// ErrUnknownFactor is returned when a raw column has no registry mapping.
	ErrUnknownFactor = errors.New("unknown factor")

	// ErrAmbiguousMapping is returned at load time when one raw name maps to two factors.
	ErrAmbiguousMapping = errors.New("ambiguous factor mapping")

	// ErrInvalidEntry is returned at load time for malformed or conflicting factor entries.
	ErrInvalidEntry = errors.New("invalid factor entry")
)

// Entry declares one canonical factor and the raw spellings that resolve to it.
type Entry struct {
	ID           string              `yaml:"id" validate:"required"`
	Name         string              `yaml:"name" validate:"required"`
	Unit         domain.Unit         `yaml:"unit" validate:"required,oneof=percent index bps level"`
	BaselineKind domain.BaselineKind `yaml:"baseline_kind" validate:"required,oneof=level spread"`
	Sources      []string            `yaml:"sources" validate:"required,min=1,dive,required"`
}

// Document is the on-disk factor mapping.
type Document struct {
	Factors []Entry `yaml:"factors" validate:"required,min=1,dive"`
}

// Registry resolves raw column names, canonical ids and display names to factors.
// It is immutable after New.
type Registry struct {
	factors []domain.Factor
	sources map[string][]string // factor id -> raw spellings, declaration order
	byKey   map[string]int      // normalized raw name / id / display name -> index into factors
}

// Load reads and validates a factor mapping document.
func Load(path string) (*Registry, error) {
	var doc Document
	if err := config.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("load factor mapping: %w", err)
	}
	return New(doc.Factors)
}

// New builds a registry. Fails if ids repeat or any name resolves to two factors.
func New(entries []Entry) (*Registry, error) {
	r := &Registry{
		sources: make(map[string][]string, len(entries)),
		byKey:   make(map[string]int),
	}

	for _, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidEntry)
		}
		if _, dup := r.sources[e.ID]; dup {
			return nil, fmt.Errorf("%w: factor id %q declared twice", ErrInvalidEntry, e.ID)
		}
		idx := len(r.factors)
		r.factors = append(r.factors, domain.Factor{
			ID:           e.ID,
			Name:         e.Name,
			Unit:         e.Unit,
			BaselineKind: e.BaselineKind,
		})
		r.sources[e.ID] = append([]string(nil), e.Sources...)

		keys := append([]string{e.ID, e.Name}, e.Sources...)
		for _, k := range keys {
			if err := r.bind(k, idx); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func (r *Registry) bind(name string, idx int) error {
	key := normalize(name)
	if key == "" {
		return nil
	}
	if prev, ok := r.byKey[key]; ok && prev != idx {
		return fmt.Errorf("%w: %q maps to both %s and %s",
			ErrAmbiguousMapping, name, r.factors[prev].ID, r.factors[idx].ID)
	}
	r.byKey[key] = idx
	return nil
}

// Resolve maps a raw column name (or canonical id, or display name) to its factor.
func (r *Registry) Resolve(raw string) (domain.Factor, error) {
	idx, ok := r.byKey[normalize(raw)]
	if !ok {
		return domain.Factor{}, fmt.Errorf("%w: %q", ErrUnknownFactor, raw)
	}
	return r.factors[idx], nil
}

// Lookup returns the factor with the given canonical id.
func (r *Registry) Lookup(id string) (domain.Factor, bool) {
	for _, f := range r.factors {
		if f.ID == id {
			return f, true
		}
	}
	return domain.Factor{}, false
}

// Factors returns all factors in declaration order.
func (r *Registry) Factors() []domain.Factor {
	out := make([]domain.Factor, len(r.factors))
	copy(out, r.factors)
	return out
}

// Sources returns the raw spellings declared for a factor id.
func (r *Registry) Sources(id string) []string {
	return append([]string(nil), r.sources[id]...)
}

// SourceIn returns the first declared raw spelling of factor id that is in columns.
func (r *Registry) SourceIn(id string, columns []string) (string, bool) {
	present := make(map[string]string, len(columns))
	for _, c := range columns {
		present[normalize(c)] = c
	}
	for _, s := range r.sources[id] {
		if c, ok := present[normalize(s)]; ok {
			return c, true
		}
	}
	return "", false
}

// Names are matched case-insensitively with collapsed whitespace.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
