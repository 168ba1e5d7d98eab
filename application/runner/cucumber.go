package runner

import (
	"bdd_automation/domain/entities"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// CucumberFeature is one feature of a cucumber JSON report
type CucumberFeature struct {
	URI      string            `json:"uri"`
	ID       string            `json:"id"`
	Keyword  string            `json:"keyword"`
	Name     string            `json:"name"`
	Line     int               `json:"line"`
	Tags     []CucumberTag     `json:"tags,omitempty"`
	Elements []CucumberElement `json:"elements"`
}

// CucumberTag is a tag attached to a feature or scenario
type CucumberTag struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// CucumberElement is a scenario or a background
type CucumberElement struct {
	ID      string         `json:"id"`
	Keyword string         `json:"keyword"`
	Name    string         `json:"name"`
	Line    int            `json:"line"`
	Type    string         `json:"type"`
	Tags    []CucumberTag  `json:"tags,omitempty"`
	Steps   []CucumberStep `json:"steps"`
}

// CucumberStep is a step with its result
type CucumberStep struct {
	Keyword string         `json:"keyword"`
	Name    string         `json:"name"`
	Line    int            `json:"line"`
	Result  CucumberResult `json:"result"`
}

// CucumberResult holds the status and the duration in nanoseconds
type CucumberResult struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Duration     int64  `json:"duration,omitempty"`
}

// ParseCucumber - decodes a cucumber JSON report. Empty input is an empty report.
func ParseCucumber(r io.Reader) ([]CucumberFeature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read cucumber report: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	var features []CucumberFeature
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, fmt.Errorf("failed to parse cucumber report: %w", err)
	}
	return features, nil
}

// Summarize - counts features, scenarios and steps by status and collects the first
// failing step of every failed scenario. Background steps are charged to the scenario
// that follows them.
func Summarize(features []CucumberFeature) entities.RunSummary {
	var summary entities.RunSummary
	for _, feature := range features {
		featureStatus := entities.StatusPassed
		scenarios := 0
		var background []CucumberStep

		for _, element := range feature.Elements {
			if element.Type == "background" {
				background = element.Steps
				continue
			}
			scenarios++
			steps := append(append([]CucumberStep{}, background...), element.Steps...)
			background = nil

			scenarioStatus := entities.StatusPassed
			var failure *entities.ScenarioFailure
			for _, step := range steps {
				status := stepStatus(step.Result.Status)
				summary.Steps.Add(status)
				summary.Duration += time.Duration(step.Result.Duration)
				scenarioStatus = worse(scenarioStatus, status)
				if status == entities.StatusFailed && failure == nil {
					failure = &entities.ScenarioFailure{
						Feature:  feature.Name,
						Scenario: element.Name,
						Step:     strings.TrimSpace(step.Keyword) + " " + step.Name,
						Line:     step.Line,
						Error:    step.Result.ErrorMessage,
					}
				}
			}
			summary.Scenarios.Add(scenarioStatus)
			if failure != nil {
				summary.Failures = append(summary.Failures, *failure)
			}
			featureStatus = worse(featureStatus, scenarioStatus)
		}
		if scenarios == 0 {
			featureStatus = entities.StatusSkipped
		}
		summary.Features.Add(featureStatus)
	}
	return summary
}

func stepStatus(raw string) entities.StepStatus {
	switch s := entities.StepStatus(strings.ToLower(raw)); s {
	case entities.StatusPassed, entities.StatusFailed, entities.StatusSkipped,
		entities.StatusUndefined, entities.StatusPending, entities.StatusAmbiguous:
		return s
	default:
		return entities.StatusSkipped
	}
}

var severity = map[entities.StepStatus]int{
	entities.StatusPassed:    0,
	entities.StatusSkipped:   1,
	entities.StatusPending:   2,
	entities.StatusUndefined: 3,
	entities.StatusAmbiguous: 4,
	entities.StatusFailed:    5,
}

// worse - the more severe of two statuses
func worse(a, b entities.StepStatus) entities.StepStatus {
	if severity[b] > severity[a] {
		return b
	}
	return a
}
