package gherkin

import (
	"bdd_automation/domain/entities"
	"fmt"
	"regexp"
	"sort"
)

// Coverage - matches every executed step against the registered step expressions.
// Steps matching nothing are undefined, steps matching several are ambiguous; the
// first matching expression is credited either way, as the runner would pick it.
func Coverage(features []entities.FeatureSummary, patterns []string) (entities.StepCoverage, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	coverage := entities.StepCoverage{Usage: make(map[string]int, len(patterns))}
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return entities.StepCoverage{}, fmt.Errorf("invalid step expression %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
		coverage.Usage[pattern] = 0
	}

	check := func(path string, step entities.StepSummary) {
		coverage.Total++
		var matches []string
		for i, re := range compiled {
			if re.MatchString(step.Text) {
				matches = append(matches, patterns[i])
			}
		}
		location := entities.StepLocation{Path: path, Line: step.Line, Text: step.Text}
		switch len(matches) {
		case 0:
			coverage.Undefined = append(coverage.Undefined, location)
			return
		case 1:
		default:
			coverage.Ambiguous = append(coverage.Ambiguous, location)
		}
		coverage.Matched++
		coverage.Usage[matches[0]]++
	}

	for _, feature := range features {
		for _, step := range feature.Background {
			// background steps run once per scenario
			for range feature.Scenarios {
				check(feature.Path, step)
			}
		}
		for _, scenario := range feature.Scenarios {
			for _, step := range scenario.ExpandedSteps() {
				check(feature.Path, step)
			}
		}
	}

	for _, pattern := range patterns {
		if coverage.Usage[pattern] == 0 {
			coverage.Unused = append(coverage.Unused, pattern)
		}
	}
	sort.Strings(coverage.Unused)
	return coverage, nil
}
