// Package formula holds the declarative table of shock metrics per factor.
package formula

import (
	"errors"
	"fmt"
	"strings"

	"scenario-shock-lab/internal/config"
	"scenario-shock-lab/internal/domain"
)

var (
	// ErrUnmappedFactor is returned when a factor has no metric definitions.
	ErrUnmappedFactor = errors.New("factor has no metric definitions")

	// ErrInvalidDefinition is returned at load time for malformed metric entries.
	ErrInvalidDefinition = errors.New("invalid metric definition")
)

// Resolver maps a factor reference (id, display name or raw column) to a canonical factor.
type Resolver interface {
	Resolve(raw string) (domain.Factor, error)
}

// Entry is one metric row of the shock config.
//
// The legacy spellings name/extreme/shock_method are accepted alongside
// factor/selector/formula.
type Entry struct {
	Factor      string   `yaml:"factor"`
	Name        string   `yaml:"name"`
	Selector    string   `yaml:"selector"`
	Extreme     string   `yaml:"extreme"`
	Formula     string   `yaml:"formula"`
	ShockMethod string   `yaml:"shock_method"`
	Scale       *float64 `yaml:"scale" validate:"omitempty,ne=0"`
}

// Document is the on-disk shock config.
type Document struct {
	Factors []Entry `yaml:"factors" validate:"required,min=1,dive"`
}

var selectorAliases = map[string]domain.Selector{
	"minimum": domain.SelectorMinimum,
	"min":     domain.SelectorMinimum,
	"maximum": domain.SelectorMaximum,
	"max":     domain.SelectorMaximum,
	"range":   domain.SelectorRange,
}

var formulaAliases = map[string]domain.FormulaKind{
	"index_pct_change":  domain.FormulaIndexPctChange,
	"level_pct_vs_t0":   domain.FormulaIndexPctChange,
	"absolute_diff":     domain.FormulaAbsoluteDiff,
	"level_delta_vs_t0": domain.FormulaAbsoluteDiff,
	"range":             domain.FormulaRange,
	"rate_range":        domain.FormulaRange,
}

// Table maps canonical factor ids to an ordered list of metric definitions.
// It is immutable after New.
type Table struct {
	order []string
	defs  map[string][]domain.MetricDefinition
}

// Load reads a shock config and resolves its factor references through r.
func Load(path string, r Resolver) (*Table, error) {
	var doc Document
	if err := config.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("load shock config: %w", err)
	}
	return New(doc.Factors, r)
}

// New builds a table from entries. When r is nil, factor references are taken as canonical ids.
func New(entries []Entry, r Resolver) (*Table, error) {
	t := &Table{defs: make(map[string][]domain.MetricDefinition)}

	for i, e := range entries {
		def, err := e.definition(r)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		for _, existing := range t.defs[def.FactorID] {
			if existing.Kind() == def.Kind() {
				return nil, fmt.Errorf("entry %d: %w: %s declared twice for %s",
					i, ErrInvalidDefinition, def.Kind(), def.FactorID)
			}
		}
		if _, seen := t.defs[def.FactorID]; !seen {
			t.order = append(t.order, def.FactorID)
		}
		t.defs[def.FactorID] = append(t.defs[def.FactorID], def)
	}
	return t, nil
}

func (e Entry) definition(r Resolver) (domain.MetricDefinition, error) {
	ref := firstNonEmpty(e.Factor, e.Name)
	if ref == "" {
		return domain.MetricDefinition{}, fmt.Errorf("%w: missing factor", ErrInvalidDefinition)
	}
	factorID := ref
	if r != nil {
		f, err := r.Resolve(ref)
		if err != nil {
			return domain.MetricDefinition{}, err
		}
		factorID = f.ID
	}

	rawFormula := strings.ToLower(strings.TrimSpace(firstNonEmpty(e.Formula, e.ShockMethod)))
	formula, ok := formulaAliases[rawFormula]
	if !ok {
		return domain.MetricDefinition{}, fmt.Errorf("%w: unknown formula %q for %s", ErrInvalidDefinition, rawFormula, ref)
	}

	rawSelector := strings.ToLower(strings.TrimSpace(firstNonEmpty(e.Selector, e.Extreme)))
	var selector domain.Selector
	switch {
	case rawSelector == "" && formula == domain.FormulaRange:
		selector = domain.SelectorRange
	case rawSelector == "":
		selector = domain.SelectorMinimum
	default:
		selector, ok = selectorAliases[rawSelector]
		if !ok {
			return domain.MetricDefinition{}, fmt.Errorf("%w: unknown selector %q for %s", ErrInvalidDefinition, rawSelector, ref)
		}
	}

	if (selector == domain.SelectorRange) != (formula == domain.FormulaRange) {
		return domain.MetricDefinition{}, fmt.Errorf("%w: selector %s cannot be combined with formula %s for %s",
			ErrInvalidDefinition, selector, formula, ref)
	}

	scale := 1.0
	if e.Scale != nil {
		scale = *e.Scale
	}
	if scale == 0 {
		return domain.MetricDefinition{}, fmt.Errorf("%w: zero scale for %s", ErrInvalidDefinition, ref)
	}

	return domain.MetricDefinition{
		FactorID: factorID,
		Selector: selector,
		Formula:  formula,
		Scale:    scale,
	}, nil
}

// MetricsFor returns the metric definitions of a factor in declaration order.
func (t *Table) MetricsFor(factorID string) ([]domain.MetricDefinition, error) {
	defs, ok := t.defs[factorID]
	if !ok || len(defs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnmappedFactor, factorID)
	}
	out := make([]domain.MetricDefinition, len(defs))
	copy(out, defs)
	return out, nil
}

// Factors returns the factor ids that have definitions, in declaration order.
func (t *Table) Factors() []string {
	return append([]string(nil), t.order...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
