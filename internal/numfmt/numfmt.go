// Package numfmt formats shock values for display using a small subset of
// the familiar "{name:+.1f}" format-spec grammar.
package numfmt

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrBadSpec is returned for an unsupported format spec.
	ErrBadSpec = errors.New("unsupported format spec")

	// ErrMissingValue is returned when a template references an unknown name.
	ErrMissingValue = errors.New("missing template value")
)

// [sign][,][.precision][type]
var specPattern = regexp.MustCompile(`^([+ ]?)(,?)(?:\.(\d+))?([fd%]?)$`)

// Format renders v according to spec. An empty spec gives the shortest
// representation that round-trips, always with a fractional part.
// Supported: "+" or " " sign, "," grouping, ".N" precision, types f, d and %.
func Format(v float64, spec string) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: non-finite value %v", ErrBadSpec, v)
	}
	if spec == "" {
		return shortest(v), nil
	}

	m := specPattern.FindStringSubmatch(spec)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrBadSpec, spec)
	}
	sign, group, precText, kind := m[1], m[2] == ",", m[3], m[4]

	prec := 6
	if precText != "" {
		prec, _ = strconv.Atoi(precText)
	}

	d := decimal.NewFromFloat(v)
	suffix := ""
	switch kind {
	case "%":
		d = d.Mul(decimal.NewFromInt(100))
		suffix = "%"
	case "d":
		if precText != "" {
			return "", fmt.Errorf("%w: precision not allowed with d: %q", ErrBadSpec, spec)
		}
		prec = 0
	case "":
		if precText == "" {
			return "", fmt.Errorf("%w: %q", ErrBadSpec, spec)
		}
	}

	text := d.Abs().StringFixed(int32(prec))
	if group {
		text = groupThousands(text)
	}

	negative := d.Round(int32(prec)).Sign() < 0
	switch {
	case negative:
		text = "-" + text
	case sign == "+":
		text = "+" + text
	case sign == " ":
		text = " " + text
	}
	return text + suffix, nil
}

// MustFormat is Format for specs known to be valid. Invalid specs fall back to the shortest form.
func MustFormat(v float64, spec string) string {
	s, err := Format(v, spec)
	if err != nil {
		return shortest(v)
	}
	return s
}

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func shortest(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func groupThousands(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)(?::([^}]*))?\}`)

// Render substitutes {name} and {name:spec} placeholders with formatted values.
func Render(template string, values map[string]float64) (string, error) {
	var firstErr error
	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		m := placeholderPattern.FindStringSubmatch(match)
		v, ok := values[m[1]]
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s", ErrMissingValue, m[1])
			}
			return match
		}
		s, err := Format(v, m[2])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return s
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
