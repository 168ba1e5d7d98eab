package entities

import "time"

// StepStatus represents the outcome of a step or scenario
type StepStatus string

const (
	StatusPassed    StepStatus = "passed"
	StatusFailed    StepStatus = "failed"
	StatusSkipped   StepStatus = "skipped"
	StatusUndefined StepStatus = "undefined"
	StatusPending   StepStatus = "pending"
	StatusAmbiguous StepStatus = "ambiguous"
)

// RunRequest describes one execution of feature files
type RunRequest struct {
	Features []string `json:"features"`
	Tags     string   `json:"tags,omitempty"`
	Parallel int      `json:"parallel,omitempty"`
}

// StatusCounts holds totals per status
type StatusCounts struct {
	Total     int `json:"total" yaml:"total"`
	Passed    int `json:"passed" yaml:"passed"`
	Failed    int `json:"failed" yaml:"failed"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Undefined int `json:"undefined" yaml:"undefined"`
	Pending   int `json:"pending" yaml:"pending"`
}

// Add - counts one status
func (c *StatusCounts) Add(status StepStatus) {
	c.Total++
	switch status {
	case StatusPassed:
		c.Passed++
	case StatusFailed, StatusAmbiguous:
		c.Failed++
	case StatusSkipped:
		c.Skipped++
	case StatusUndefined:
		c.Undefined++
	case StatusPending:
		c.Pending++
	}
}

// Merge - adds another set of counts
func (c *StatusCounts) Merge(other StatusCounts) {
	c.Total += other.Total
	c.Passed += other.Passed
	c.Failed += other.Failed
	c.Skipped += other.Skipped
	c.Undefined += other.Undefined
	c.Pending += other.Pending
}

// ScenarioFailure points at a failing step
type ScenarioFailure struct {
	Feature  string `json:"feature" yaml:"feature"`
	Scenario string `json:"scenario" yaml:"scenario"`
	Step     string `json:"step" yaml:"step"`
	Line     int    `json:"line" yaml:"line"`
	Error    string `json:"error" yaml:"error"`
}

// FeatureRun is the process-level result of executing one feature file
type FeatureRun struct {
	Path     string        `json:"path" yaml:"path"`
	ExitCode int           `json:"exitCode" yaml:"exit_code"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Stderr   string        `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunSummary aggregates a whole run
type RunSummary struct {
	ID        string            `json:"id" yaml:"id"`
	StartedAt time.Time         `json:"startedAt" yaml:"started_at"`
	Duration  time.Duration     `json:"duration" yaml:"duration"`
	Features  StatusCounts      `json:"features" yaml:"features"`
	Scenarios StatusCounts      `json:"scenarios" yaml:"scenarios"`
	Steps     StatusCounts      `json:"steps" yaml:"steps"`
	Failures  []ScenarioFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Processes []FeatureRun      `json:"processes,omitempty" yaml:"processes,omitempty"`
}

// Passed - a run passes when nothing failed, was undefined, or crashed
func (s RunSummary) Passed() bool {
	if s.Scenarios.Failed > 0 || s.Steps.Undefined > 0 || s.Steps.Failed > 0 {
		return false
	}
	for _, p := range s.Processes {
		if p.ExitCode != 0 {
			return false
		}
	}
	return true
}
