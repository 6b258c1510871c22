package normalization

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"scenario-shock-lab/internal/domain"
)

// FactorValue is one T0 entry. A nil Value means the source had no number.
type FactorValue struct {
	Name  string
	Value *float64
}

// Snapshot is the T0 row: the last historical quarter before the scenario starts.
// Factor order follows the source tables.
type Snapshot struct {
	Date    domain.Period
	Factors []FactorValue
}

// Get returns the value of a factor.
func (s *Snapshot) Get(name string) (*float64, bool) {
	for _, f := range s.Factors {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns factor names in order.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.Factors))
	for i, f := range s.Factors {
		out[i] = f.Name
	}
	return out
}

// InsertAfter places name right after anchor, replacing any existing entry.
// A missing anchor appends at the end.
func (s *Snapshot) InsertAfter(anchor, name string, value *float64) {
	kept := s.Factors[:0:0]
	for _, f := range s.Factors {
		if f.Name != name {
			kept = append(kept, f)
		}
	}

	out := make([]FactorValue, 0, len(kept)+1)
	inserted := false
	for _, f := range kept {
		out = append(out, f)
		if f.Name == anchor {
			out = append(out, FactorValue{Name: name, Value: value})
			inserted = true
		}
	}
	if !inserted {
		out = append(out, FactorValue{Name: name, Value: value})
	}
	s.Factors = out
}

// Project keeps the listed factors renamed to their targets, in the listed order.
func (s *Snapshot) Project(pairs []domain.ColumnRename) (*Snapshot, error) {
	out := &Snapshot{Date: s.Date}
	var missing []string
	for _, p := range pairs {
		v, ok := s.Get(p.From)
		if !ok {
			missing = append(missing, p.From)
			continue
		}
		out.Factors = append(out.Factors, FactorValue{Name: p.To, Value: v})
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w in t0: %q", ErrMissingColumns, missing)
	}
	return out, nil
}

// MarshalJSON writes {"date": ..., "factors": {...}} keeping factor order.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"date":`)
	date, err := json.Marshal(s.Date.String())
	if err != nil {
		return nil, err
	}
	buf.Write(date)
	buf.WriteString(`,"factors":{`)
	for i, f := range s.Factors {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if f.Value == nil {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(*f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the format written by MarshalJSON, preserving key order.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date    domain.Period   `json:"date"`
		Factors json.RawMessage `json:"factors"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Date = raw.Date
	s.Factors = nil
	if len(raw.Factors) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Factors))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("t0 factors: expected object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var v *float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("t0 factor %q: %w", name, err)
		}
		s.Factors = append(s.Factors, FactorValue{Name: name, Value: v})
	}
	return nil
}

// ReadSnapshotFile loads a T0 snapshot.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &s, nil
}

// WriteSnapshotFile writes a T0 snapshot as indented JSON.
func WriteSnapshotFile(path string, s *Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode t0: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ExtractT0 takes the last row of every historic table. All tables must end on
// the same quarter and no factor name may appear in two tables.
func ExtractT0(sources ...Source) (*Snapshot, error) {
	if len(sources) == 0 {
		return nil, ErrNoTables
	}

	snap := &Snapshot{}
	owner := make(map[string]string)
	for i, src := range sources {
		t := src.Table
		if t == nil || t.Len() == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyTable, src.Name)
		}
		last := t.Len() - 1
		date := t.Periods[last]
		if i == 0 {
			snap.Date = date
		} else if date != snap.Date {
			return nil, fmt.Errorf("%w: %s ends %s, %s ends %s",
				ErrT0Mismatch, sources[0].Name, snap.Date, src.Name, date)
		}

		for _, col := range t.Columns() {
			if prev, dup := owner[col]; dup {
				return nil, fmt.Errorf("%w: %q in %s and %s", ErrDuplicateFactor, col, prev, src.Name)
			}
			owner[col] = src.Name
			snap.Factors = append(snap.Factors, FactorValue{Name: col, Value: valuePtr(t.Value(col, last))})
		}
	}
	return snap, nil
}

func valuePtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
