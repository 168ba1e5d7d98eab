package gherkin

import (
	"bdd_automation/domain/entities"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	feature, err := ParseFile(filepath.Join("testdata", "checkout.feature"))
	require.NoError(t, err)

	assert.Equal(t, "Checkout", feature.Name)
	assert.Equal(t, "en", feature.Language)
	assert.Equal(t, []string{"@checkout"}, feature.Tags)
	assert.Equal(t, "Customers pay for the items in their cart.", feature.Description)
	require.Len(t, feature.Background, 1)
	assert.Equal(t, `I navigate to "/cart"`, feature.Background[0].Text)

	require.Len(t, feature.Scenarios, 3)

	pick := feature.Scenarios[0]
	assert.Equal(t, "Pick a country", pick.Name)
	assert.Equal(t, []string{"@smoke"}, pick.Tags)
	assert.Equal(t, 9, pick.Line)
	assert.Equal(t, "When", pick.Steps[0].Keyword)

	outline := feature.Scenarios[1]
	assert.Equal(t, "Scenario Outline", outline.Keyword)
	assert.Equal(t, 2, outline.ExampleCount)
	assert.Equal(t, "#declined", outline.Examples[1]["result"])

	form := feature.Scenarios[2]
	assert.Equal(t, "Addresses", form.Rule)
	assert.Equal(t, [][]string{{"field", "value"}, {"#name", "Ada"}, {"#email", "ada@x.org"}}, form.Steps[0].TableRows)
}

func TestParseReader_Invalid(t *testing.T) {
	_, err := ParseReader(strings.NewReader("Scenario: orphan\n  Given a step outside any feature\n"))
	assert.Error(t, err)

	_, err = ParseReader(strings.NewReader("# only a comment\n"))
	assert.ErrorContains(t, err, "no feature")
}

func TestListFeatures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.feature"), []byte("Feature: B\n  Scenario: one\n    Given x\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "a.feature"), []byte("Feature: A\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	features, err := ListFeatures(dir)
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "B", features[0].Name)
	assert.Equal(t, "A", features[1].Name)
	assert.Empty(t, features[1].Scenarios)
}

func TestExpandedSteps(t *testing.T) {
	sc := entities.ScenarioSummary{
		Steps:    []entities.StepSummary{{Text: `I fill "#q" with "<term>"`}},
		Examples: []map[string]string{{"term": "go"}, {"term": "rust"}},
	}
	expanded := sc.ExpandedSteps()
	require.Len(t, expanded, 2)
	assert.Equal(t, `I fill "#q" with "go"`, expanded[0].Text)
	assert.Equal(t, `I fill "#q" with "rust"`, expanded[1].Text)
	assert.Equal(t, `I fill "#q" with "<term>"`, sc.Steps[0].Text)
}
