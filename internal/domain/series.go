package domain

// Scenario names used by the regulator's tables.
const (
	ScenarioSeverelyAdverse = "Severely Adverse"
	ScenarioBaseline        = "Baseline"
)

// Observation is one (period, value) pair of a scenario path.
type Observation struct {
	Period Period
	Value  float64
}

// Series is the path of one factor under one scenario of one vintage.
// Observations are consecutive quarters.
type Series struct {
	FactorID     string
	Scenario     string // e.g. "Severely Adverse"
	Vintage      string // e.g. "2025"
	Observations []Observation
}

// Len returns the number of periods.
func (s Series) Len() int {
	return len(s.Observations)
}

// Baseline is the pre-scenario (T0) value of a factor for a vintage.
type Baseline struct {
	FactorID string
	Vintage  string
	Period   Period // T0 quarter
	Value    float64
}
