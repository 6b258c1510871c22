package idhash

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestInputsDigest(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "path_SA.csv", "Date,real_gdp\n2025 Q1,-1.0\n")
	b := writeFile(t, dir, "t0.json", `{"real_gdp": 2.1}`)

	d1, err := InputsDigest(a, b)
	if err != nil {
		t.Fatalf("InputsDigest: %v", err)
	}
	if len(d1) != 64 {
		t.Errorf("digest length = %d, want 64", len(d1))
	}

	d2, _ := InputsDigest(a, b)
	if d1 != d2 {
		t.Error("digest not deterministic")
	}

	swapped, _ := InputsDigest(b, a)
	if swapped == d1 {
		t.Error("digest should depend on order")
	}

	writeFile(t, dir, "t0.json", `{"real_gdp": 2.2}`)
	changed, _ := InputsDigest(a, b)
	if changed == d1 {
		t.Error("digest should change with content")
	}
}

func TestInputsDigest_MissingFile(t *testing.T) {
	_, err := InputsDigest(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestMetricKey(t *testing.T) {
	k := MetricKey("2025", "severely_adverse", "real_gdp", "cumulative_growth", "min")
	if len(k) != 64 {
		t.Errorf("key length = %d, want 64", len(k))
	}
	if k != MetricKey("2025", "severely_adverse", "real_gdp", "cumulative_growth", "min") {
		t.Error("key not deterministic")
	}
	if k == MetricKey("2024", "severely_adverse", "real_gdp", "cumulative_growth", "min") {
		t.Error("key should depend on vintage")
	}
}
