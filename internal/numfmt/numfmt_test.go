package numfmt

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		v    float64
		spec string
		want string
	}{
		{-50, ".1f", "-50.0"},
		{37, "+.0f", "+37"},
		{-0.8, "+.1f", "-0.8"},
		{5.25, ".1f", "5.3"},
		{-5.25, ".1f", "-5.3"},
		{0.04, ".1f", "0.0"},
		{-0.04, "+.1f", "+0.0"},
		{1234567.891, ",.2f", "1,234,567.89"},
		{0.052, ".1%", "5.2%"},
		{2.6, "d", "3"},
		{3.0, "", "3.0"},
		{-1.25, "", "-1.25"},
	}
	for _, tt := range tests {
		got, err := Format(tt.v, tt.spec)
		if err != nil {
			t.Errorf("Format(%v, %q): unexpected error: %v", tt.v, tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Format(%v, %q) = %q, want %q", tt.v, tt.spec, got, tt.want)
		}
	}
}

func TestFormat_BadSpec(t *testing.T) {
	for _, spec := range []string{"x", ".2q", "+", ".1d", "10.2f"} {
		if _, err := Format(1, spec); !errors.Is(err, ErrBadSpec) {
			t.Errorf("Format(1, %q): expected ErrBadSpec, got %v", spec, err)
		}
	}
}

func TestRound(t *testing.T) {
	if got := Round(101.23456, 4); got != 101.2346 {
		t.Errorf("expected 101.2346, got %v", got)
	}
	if got := Round(-0.00005, 4); got != -0.0001 {
		t.Errorf("expected -0.0001, got %v", got)
	}
}

func TestRender(t *testing.T) {
	got, err := Render("{low:.1f}% to {high:.1f}%", map[string]float64{"low": 1.23, "high": 4.56})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1.2% to 4.6%" {
		t.Errorf("unexpected render: %q", got)
	}

	if _, err := Render("{shock:.1f}", map[string]float64{}); !errors.Is(err, ErrMissingValue) {
		t.Errorf("expected ErrMissingValue, got %v", err)
	}
}
