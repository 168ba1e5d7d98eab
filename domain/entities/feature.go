package entities

import "strings"

// StepSummary is one parsed Gherkin step
type StepSummary struct {
	Keyword   string     `json:"keyword"`
	Text      string     `json:"text"`
	Line      int        `json:"line"`
	TableRows [][]string `json:"tableRows,omitempty"`
	DocString string     `json:"docString,omitempty"`
}

// ScenarioSummary is one parsed scenario or scenario outline
type ScenarioSummary struct {
	Name         string        `json:"name"`
	Keyword      string        `json:"keyword"`
	Tags         []string      `json:"tags,omitempty"`
	Line         int           `json:"line"`
	Steps        []StepSummary `json:"steps"`
	ExampleCount int           `json:"exampleCount,omitempty"`
	Rule         string        `json:"rule,omitempty"`
	// Examples holds one header-to-value map per example row of an outline
	Examples []map[string]string `json:"examples,omitempty"`
}

// ExpandedSteps - the step texts as executed: once per example row for outlines,
// with <placeholders> substituted
func (s ScenarioSummary) ExpandedSteps() []StepSummary {
	if len(s.Examples) == 0 {
		return s.Steps
	}
	expanded := make([]StepSummary, 0, len(s.Steps)*len(s.Examples))
	for _, row := range s.Examples {
		for _, step := range s.Steps {
			text := step.Text
			for header, value := range row {
				text = strings.ReplaceAll(text, "<"+header+">", value)
			}
			step.Text = text
			expanded = append(expanded, step)
		}
	}
	return expanded
}

// FeatureSummary is the parsed structure of a feature file
type FeatureSummary struct {
	Path        string            `json:"path"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Language    string            `json:"language"`
	Tags        []string          `json:"tags,omitempty"`
	Background  []StepSummary     `json:"background,omitempty"`
	Scenarios   []ScenarioSummary `json:"scenarios"`
}

// StepLocation points at a step inside a feature file
type StepLocation struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// StepCoverage reports which step expressions are exercised by feature files
type StepCoverage struct {
	Usage     map[string]int `json:"usage"`
	Unused    []string       `json:"unused,omitempty"`
	Undefined []StepLocation `json:"undefined,omitempty"`
	Ambiguous []StepLocation `json:"ambiguous,omitempty"`
	Total     int            `json:"totalSteps"`
	Matched   int            `json:"matchedSteps"`
}
