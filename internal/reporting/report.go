package reporting

import (
	"time"

	"scenario-shock-lab/internal/domain"
)

// StepStatus is the outcome of one pipeline step.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// RunReport summarises one pipeline run.
type RunReport struct {
	// Metadata
	RunID       string
	Vintage     string
	GeneratedAt time.Time

	Steps        []StepResult
	ShockCount   int
	FactorErrors []*domain.FactorError
	Artifacts    []string
}

// StepResult records one executed step.
type StepResult struct {
	Name     string
	Status   StepStatus
	Duration time.Duration
	Detail   string
}

// Succeeded reports whether no step failed.
func (r *RunReport) Succeeded() bool {
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			return false
		}
	}
	return true
}
