package runner

import (
	"bdd_automation/domain/entities"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) []CucumberFeature {
	t.Helper()
	f, err := os.Open("testdata/checkout.json")
	require.NoError(t, err)
	defer f.Close()
	features, err := ParseCucumber(f)
	require.NoError(t, err)
	return features
}

func TestParseCucumber(t *testing.T) {
	features := loadFixture(t)
	require.Len(t, features, 1)
	assert.Equal(t, "Checkout", features[0].Name)
	require.Len(t, features[0].Elements, 5)
	assert.Equal(t, "background", features[0].Elements[0].Type)
	assert.Equal(t, "@smoke", features[0].Elements[1].Tags[0].Name)
}

func TestParseCucumber_EmptyAndInvalid(t *testing.T) {
	features, err := ParseCucumber(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, features)

	_, err = ParseCucumber(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	summary := Summarize(loadFixture(t))

	assert.Equal(t, entities.StatusCounts{Total: 1, Failed: 1}, summary.Features)
	assert.Equal(t, entities.StatusCounts{Total: 3, Passed: 1, Failed: 1, Undefined: 1}, summary.Scenarios)
	assert.Equal(t, entities.StatusCounts{Total: 7, Passed: 4, Failed: 1, Skipped: 1, Undefined: 1}, summary.Steps)
	assert.Equal(t, 11*time.Millisecond, summary.Duration)

	require.Len(t, summary.Failures, 1)
	assert.Equal(t, entities.ScenarioFailure{
		Feature:  "Checkout",
		Scenario: "pick country",
		Step:     `When I select "Brazil" from the dropdown labeled "Country"`,
		Line:     11,
		Error:    `dropdown labeled "Country" did not open`,
	}, summary.Failures[0])
	assert.False(t, summary.Passed())
}

func TestSummarize_FeatureWithoutScenariosIsSkipped(t *testing.T) {
	summary := Summarize([]CucumberFeature{{Name: "Empty"}})
	assert.Equal(t, entities.StatusCounts{Total: 1, Skipped: 1}, summary.Features)
	assert.Zero(t, summary.Scenarios.Total)
	assert.True(t, summary.Passed())
}

func TestSummarize_UnknownStatusCountsAsSkipped(t *testing.T) {
	summary := Summarize([]CucumberFeature{{
		Name: "Odd",
		Elements: []CucumberElement{{
			Name: "s", Type: "scenario",
			Steps: []CucumberStep{{Name: "x", Result: CucumberResult{Status: "flaky"}}},
		}},
	}})
	assert.Equal(t, entities.StatusCounts{Total: 1, Skipped: 1}, summary.Steps)
}
