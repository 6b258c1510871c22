package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidPeriod is returned when a period label is not "YYYY Qn".
var ErrInvalidPeriod = errors.New("period must follow the 'YYYY Qn' format")

var periodPattern = regexp.MustCompile(`^\s*(\d{4})\s*Q([1-4])\s*$`)

// Period is a calendar quarter.
type Period struct {
	Year    int
	Quarter int // 1..4
}

// ParsePeriod parses labels like "2025 Q1" (the space is optional).
func ParsePeriod(s string) (Period, error) {
	m := periodPattern.FindStringSubmatch(s)
	if m == nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	year, _ := strconv.Atoi(m[1])
	quarter, _ := strconv.Atoi(m[2])
	return Period{Year: year, Quarter: quarter}, nil
}

// MustParsePeriod is ParsePeriod for literals. Panics on bad input.
func MustParsePeriod(s string) Period {
	p, err := ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the period in the published format.
func (p Period) String() string {
	if p.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d Q%d", p.Year, p.Quarter)
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Quarter == 0
}

// Ordinal returns a monotonically increasing quarter index.
func (p Period) Ordinal() int {
	return p.Year*4 + (p.Quarter - 1)
}

// Before reports whether p is strictly earlier than q.
func (p Period) Before(q Period) bool {
	return p.Ordinal() < q.Ordinal()
}

// Next returns the following quarter.
func (p Period) Next() Period {
	if p.Quarter == 4 {
		return Period{Year: p.Year + 1, Quarter: 1}
	}
	return Period{Year: p.Year, Quarter: p.Quarter + 1}
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the zero period.
func (p *Period) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*p = Period{}
		return nil
	}
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
