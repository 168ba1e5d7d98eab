// Package gherkin reads feature files into summaries and measures how well registered
// step expressions cover them.
package gherkin

import (
	"bdd_automation/domain/entities"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	parser "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
)

// ParseFile - parses one feature file
func ParseFile(path string) (entities.FeatureSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return entities.FeatureSummary{}, fmt.Errorf("failed to open feature: %w", err)
	}
	defer f.Close()

	feature, err := ParseReader(f)
	if err != nil {
		return entities.FeatureSummary{}, fmt.Errorf("%s: %w", path, err)
	}
	feature.Path = path
	return feature, nil
}

// ParseReader - parses Gherkin source
func ParseReader(r io.Reader) (entities.FeatureSummary, error) {
	doc, err := parser.ParseGherkinDocument(r, (&messages.Incrementing{}).NewId)
	if err != nil {
		return entities.FeatureSummary{}, fmt.Errorf("failed to parse gherkin: %w", err)
	}
	if doc.Feature == nil {
		return entities.FeatureSummary{}, fmt.Errorf("document has no feature")
	}
	return summarizeFeature(doc.Feature), nil
}

// ListFeatures - parses every .feature file below dir, sorted by path
func ListFeatures(dir string) ([]entities.FeatureSummary, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".feature") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)

	features := make([]entities.FeatureSummary, 0, len(paths))
	for _, path := range paths {
		feature, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		features = append(features, feature)
	}
	return features, nil
}

func summarizeFeature(f *messages.Feature) entities.FeatureSummary {
	summary := entities.FeatureSummary{
		Name:        f.Name,
		Description: strings.TrimSpace(f.Description),
		Language:    f.Language,
		Tags:        tagNames(f.Tags),
		Scenarios:   []entities.ScenarioSummary{},
	}
	for _, child := range f.Children {
		switch {
		case child.Background != nil:
			summary.Background = append(summary.Background, summarizeSteps(child.Background.Steps)...)
		case child.Scenario != nil:
			summary.Scenarios = append(summary.Scenarios, summarizeScenario(child.Scenario, ""))
		case child.Rule != nil:
			for _, ruleChild := range child.Rule.Children {
				if ruleChild.Scenario != nil {
					summary.Scenarios = append(summary.Scenarios, summarizeScenario(ruleChild.Scenario, child.Rule.Name))
				}
			}
		}
	}
	return summary
}

func summarizeScenario(sc *messages.Scenario, rule string) entities.ScenarioSummary {
	summary := entities.ScenarioSummary{
		Name:    sc.Name,
		Keyword: strings.TrimSpace(sc.Keyword),
		Tags:    tagNames(sc.Tags),
		Line:    line(sc.Location),
		Steps:   summarizeSteps(sc.Steps),
		Rule:    rule,
	}
	for _, ex := range sc.Examples {
		if ex.TableHeader == nil {
			continue
		}
		headers := cellValues(ex.TableHeader)
		for _, row := range ex.TableBody {
			values := cellValues(row)
			example := make(map[string]string, len(headers))
			for i, header := range headers {
				if i < len(values) {
					example[header] = values[i]
				}
			}
			summary.Examples = append(summary.Examples, example)
		}
	}
	summary.ExampleCount = len(summary.Examples)
	return summary
}

func summarizeSteps(steps []*messages.Step) []entities.StepSummary {
	out := make([]entities.StepSummary, 0, len(steps))
	for _, st := range steps {
		step := entities.StepSummary{
			Keyword: strings.TrimSpace(st.Keyword),
			Text:    st.Text,
			Line:    line(st.Location),
		}
		if st.DataTable != nil {
			for _, row := range st.DataTable.Rows {
				step.TableRows = append(step.TableRows, cellValues(row))
			}
		}
		if st.DocString != nil {
			step.DocString = st.DocString.Content
		}
		out = append(out, step)
	}
	return out
}

func tagNames(tags []*messages.Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

func cellValues(row *messages.TableRow) []string {
	values := make([]string, 0, len(row.Cells))
	for _, cell := range row.Cells {
		values = append(values, cell.Value)
	}
	return values
}

func line(loc *messages.Location) int {
	if loc == nil {
		return 0
	}
	return int(loc.Line)
}
