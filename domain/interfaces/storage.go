package interfaces

import "bdd_automation/domain/entities"

// RunStore persists test run summaries
type RunStore interface {
	// SaveSummary stores the latest run and appends it to history
	SaveSummary(summary entities.RunSummary) error

	// LastSummary loads the latest run; ok is false when no run was stored yet
	LastSummary() (summary entities.RunSummary, ok bool, err error)

	// History loads previous runs, newest last
	History() ([]entities.RunSummary, error)
}
