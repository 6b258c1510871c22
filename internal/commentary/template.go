package commentary

import (
	"fmt"
	"regexp"

	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/numfmt"
)

// ComputedMarker tags text generated from data.
const ComputedMarker = "`[computed]`"

// ManualMarker tags human-authored text.
const ManualMarker = "`[manual]`"

var (
	baselinePattern = regexp.MustCompile(`\{baseline\.([^.}]+)\.([a-z]+)(?::([^}]+))?\}(%|bps|ppts|pts)?`)
	shockPattern    = regexp.MustCompile(`\{([^.}]+)\.([a-z0-9_]+)(?::([^}]+))?\}(%|bps|ppts|pts)?`)
)

// Render fills {baseline.Factor.agg:fmt} then {Factor.field:fmt} placeholders.
// A trailing unit stays attached to its value and, with marker set, is
// followed by the computed marker. Unresolved placeholders render as
// [Factor.field:N/A], dropping the unit, and are returned as factor errors.
func (v *Values) Render(template string, marker bool) (string, []*domain.FactorError) {
	var errs []*domain.FactorError
	suffix := ""
	if marker {
		suffix = " " + ComputedMarker
	}

	replace := func(pattern *regexp.Regexp, label func(factor, field string) string,
		lookup func(factor, field string) (float64, bool)) func(string) string {
		return func(match string) string {
			m := pattern.FindStringSubmatch(match)
			factor, field, spec, unit := m[1], m[2], m[3], m[4]

			val, ok := lookup(factor, field)
			if !ok {
				errs = append(errs, &domain.FactorError{
					FactorID: factor,
					Metric:   field,
					Err:      fmt.Errorf("%w: %s", ErrMissingValue, label(factor, field)),
				})
				return fmt.Sprintf("[%s:N/A]", label(factor, field))
			}
			text, err := numfmt.Format(val, spec)
			if err != nil {
				errs = append(errs, &domain.FactorError{FactorID: factor, Metric: field, Err: err})
				text = numfmt.MustFormat(val, "")
			}
			return text + unit + suffix
		}
	}

	out := baselinePattern.ReplaceAllStringFunc(template, replace(baselinePattern,
		func(factor, agg string) string { return "baseline." + factor + "." + agg },
		v.Baseline))
	out = shockPattern.ReplaceAllStringFunc(out, replace(shockPattern,
		func(factor, field string) string { return factor + "." + field },
		v.Field))
	return out, errs
}
