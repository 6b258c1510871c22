package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Step names in canonical order.
const (
	StepPreprocess = "preprocess"
	StepDerive     = "derive"
	StepSelect     = "select"
	StepShocks     = "shocks"
	StepTables     = "tables"
	StepCommentary = "commentary"
	StepSummary    = "summary"
	StepTimeline   = "timeline"
)

// Sequence is the full run order.
var Sequence = []string{
	StepPreprocess,
	StepDerive,
	StepSelect,
	StepShocks,
	StepTables,
	StepCommentary,
	StepSummary,
	StepTimeline,
}

var (
	// ErrUnknownStep is returned when a selection names a step outside Sequence.
	ErrUnknownStep = errors.New("unknown step")

	// ErrFactorErrors is returned in strict mode when any factor failed.
	ErrFactorErrors = errors.New("run completed with factor errors")
)

// ResolveSteps validates a selection and returns it in Sequence order.
// An empty selection means every step.
func ResolveSteps(selection []string) ([]string, error) {
	if len(selection) == 0 {
		return append([]string(nil), Sequence...), nil
	}

	known := make(map[string]bool, len(Sequence))
	for _, s := range Sequence {
		known[s] = true
	}

	chosen := make(map[string]bool, len(selection))
	var unknown []string
	for _, s := range selection {
		s = strings.ToLower(strings.TrimSpace(s))
		if !known[s] {
			unknown = append(unknown, s)
			continue
		}
		chosen[s] = true
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", ErrUnknownStep, strings.Join(unknown, ", "))
	}

	var out []string
	for _, s := range Sequence {
		if chosen[s] {
			out = append(out, s)
		}
	}
	return out, nil
}
