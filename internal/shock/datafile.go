package shock

import (
	"encoding/json"
	"fmt"
	"os"

	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/idhash"
)

// DataFile is the shock_data.json interchange document of one vintage.
type DataFile struct {
	Vintage  string `json:"vintage"`
	Scenario string `json:"scenario"`
	RunID    string `json:"run_id,omitempty"`
	// fingerprint of path_SA.csv, t0.json and the formula table
	InputsDigest string        `json:"inputs_digest,omitempty"`
	Shocks       []ShockRecord `json:"shocks"`
}

// ShockRecord is the file form of a domain.ComputedShock.
type ShockRecord struct {
	ID       string   `json:"id"`
	Factor   string   `json:"factor"`
	Selector string   `json:"selector"`
	Formula  string   `json:"formula"`
	Scale    float64  `json:"scale"`
	Baseline *float64 `json:"baseline,omitempty"`
	Extreme  *Point   `json:"extreme,omitempty"`
	Value    *float64 `json:"value,omitempty"`
	Low      *Point   `json:"low,omitempty"`
	High     *Point   `json:"high,omitempty"`
}

// Point is an extreme value and its quarter.
type Point struct {
	Period domain.Period `json:"period"`
	Value  float64       `json:"value"`
}

// NewDataFile builds the document for a set of shocks.
func NewDataFile(vintage, scenario, runID string, shocks []domain.ComputedShock) *DataFile {
	f := &DataFile{Vintage: vintage, Scenario: scenario, RunID: runID, Shocks: make([]ShockRecord, 0, len(shocks))}
	for _, s := range shocks {
		rec := ShockRecord{
			ID:       idhash.MetricKey(vintage, scenario, s.FactorID, string(s.Formula), string(s.Selector)),
			Factor:   s.FactorID,
			Selector: string(s.Selector),
			Formula:  string(s.Formula),
			Scale:    s.Scale,
		}
		if s.IsRange() {
			rec.Low = &Point{Period: s.Low.Period, Value: s.Low.Value}
			rec.High = &Point{Period: s.High.Period, Value: s.High.Value}
		} else {
			baseline, value := s.Baseline, s.Value
			rec.Baseline = &baseline
			rec.Value = &value
			rec.Extreme = &Point{Period: s.Extreme.Period, Value: s.Extreme.Value}
		}
		f.Shocks = append(f.Shocks, rec)
	}
	return f
}

// ComputedShocks converts the records back to domain shocks stamped with the file vintage.
func (f *DataFile) ComputedShocks() []domain.ComputedShock {
	out := make([]domain.ComputedShock, 0, len(f.Shocks))
	for _, rec := range f.Shocks {
		s := domain.ComputedShock{
			FactorID: rec.Factor,
			Vintage:  f.Vintage,
			Scenario: f.Scenario,
			Selector: domain.Selector(rec.Selector),
			Formula:  domain.FormulaKind(rec.Formula),
			Scale:    rec.Scale,
		}
		if rec.Baseline != nil {
			s.Baseline = *rec.Baseline
		}
		if rec.Value != nil {
			s.Value = *rec.Value
		}
		if rec.Extreme != nil {
			s.Extreme = domain.Extreme{Period: rec.Extreme.Period, Value: rec.Extreme.Value}
		}
		if rec.Low != nil {
			s.Low = domain.Extreme{Period: rec.Low.Period, Value: rec.Low.Value}
		}
		if rec.High != nil {
			s.High = domain.Extreme{Period: rec.High.Period, Value: rec.High.Value}
		}
		out = append(out, s)
	}
	return out
}

// WriteDataFile writes f as indented JSON.
func WriteDataFile(path string, f *DataFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode shock data: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadDataFile loads a shock_data.json document.
func ReadDataFile(path string) (*DataFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f DataFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &f, nil
}
