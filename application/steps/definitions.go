package steps

import (
	"bdd_automation/application/interaction"
	"bdd_automation/domain/entities"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

type stepDefinition struct {
	Pattern string
	handler func(s *scenario) interface{}
}

// definitions - every supported phrase, in registration order. Quoted arguments match
// lazily up to the literal text that follows them, so selectors such as
// input[name="email"] can be written without escaping.
func definitions() []stepDefinition {
	return []stepDefinition{
		{`^I navigate to "(.*?)"$`, func(s *scenario) interface{} { return s.navigate }},
		{`^I click "(.*?)"$`, func(s *scenario) interface{} { return s.click }},
		{`^I fill "(.*?)" with "(.*?)"$`, func(s *scenario) interface{} { return s.fill }},
		{`^I fill in the form:$`, func(s *scenario) interface{} { return s.fillForm }},
		{`^I hover over "(.*?)"$`, func(s *scenario) interface{} { return s.hover }},
		{`^I press "(.*?)"$`, func(s *scenario) interface{} { return s.press }},
		{`^I select option (\d+) from the dropdown labeled "(.*?)"$`, func(s *scenario) interface{} { return s.selectIndexByLabel }},
		{`^I select "(.*?)" from the dropdown labeled "(.*?)"$`, func(s *scenario) interface{} { return s.selectTextByLabel }},
		{`^I select option (\d+) from the dropdown "(.*?)"$`, func(s *scenario) interface{} { return s.selectIndexBySelector }},
		{`^I select "(.*?)" from the dropdown "(.*?)"$`, func(s *scenario) interface{} { return s.selectTextBySelector }},
		{`^I click at offset (-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?) from the (center|origin) of "(.*?)"$`, func(s *scenario) interface{} { return s.relativeClick }},
		{`^I wait for "(.*?)"$`, func(s *scenario) interface{} { return s.waitFor }},
		{`^I should see "(.*?)"$`, func(s *scenario) interface{} { return s.shouldSee }},
		{`^I should not see "(.*?)"$`, func(s *scenario) interface{} { return s.shouldNotSee }},
		{`^"(.*?)" should contain "(.*?)"$`, func(s *scenario) interface{} { return s.shouldContain }},
		{`^I take a screenshot named "(.*?)"$`, func(s *scenario) interface{} { return s.screenshot }},
	}
}

// check - turns a core or provider outcome into a step error
func check(success bool, message string, err error) error {
	if err != nil {
		return err
	}
	if !success {
		return errors.New(message)
	}
	return nil
}

func (s *scenario) navigate(ctx context.Context, url string) error {
	res, err := s.session.Primitives().Navigate(ctx, url)
	return check(res.Success, res.Message, err)
}

func (s *scenario) click(ctx context.Context, selector string) error {
	res, err := s.deps.Interactor.Click(ctx, s.session, selector)
	return check(res.Success, res.Message, err)
}

func (s *scenario) fill(ctx context.Context, selector, text string) error {
	res, err := s.session.Primitives().Fill(ctx, selector, text)
	return check(res.Success, res.Message, err)
}

// fillForm - two column table of selector and value; a "field | value" header row is skipped
func (s *scenario) fillForm(ctx context.Context, table *godog.Table) error {
	for i, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("form row %d needs exactly 2 cells, got %d", i+1, len(row.Cells))
		}
		field, value := row.Cells[0].Value, row.Cells[1].Value
		if i == 0 && strings.EqualFold(field, "field") && strings.EqualFold(value, "value") {
			continue
		}
		if err := s.fill(ctx, field, value); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	return nil
}

func (s *scenario) hover(ctx context.Context, selector string) error {
	res, err := s.session.Primitives().Hover(ctx, selector, 0)
	return check(res.Success, res.Message, err)
}

func (s *scenario) press(ctx context.Context, key string) error {
	res, err := s.session.Primitives().PressKey(ctx, key)
	return check(res.Success, res.Message, err)
}

func (s *scenario) selectOption(ctx context.Context, trigger entities.DropdownTrigger, target entities.DropdownSelectionTarget) error {
	res, err := s.deps.Interactor.SelectOption(ctx, s.session, trigger, target)
	return check(res.Success, res.Message, err)
}

func (s *scenario) selectIndexByLabel(ctx context.Context, index int, label string) error {
	return s.selectOption(ctx, entities.DropdownTrigger{Label: label}, entities.ByIndex(index))
}

func (s *scenario) selectTextByLabel(ctx context.Context, text, label string) error {
	return s.selectOption(ctx, entities.DropdownTrigger{Label: label}, entities.ByText(text))
}

func (s *scenario) selectIndexBySelector(ctx context.Context, index int, selector string) error {
	return s.selectOption(ctx, entities.DropdownTrigger{Selector: selector}, entities.ByIndex(index))
}

func (s *scenario) selectTextBySelector(ctx context.Context, text, selector string) error {
	return s.selectOption(ctx, entities.DropdownTrigger{Selector: selector}, entities.ByText(text))
}

func (s *scenario) relativeClick(ctx context.Context, x, y float64, anchor, reference string) error {
	res, err := s.deps.Interactor.RelativeClick(ctx, s.session, reference, x, y, anchor == "center")
	return check(res.Success, res.Message, err)
}

func (s *scenario) waitFor(ctx context.Context, selector string) error {
	res, err := s.session.Primitives().WaitForSelector(ctx, selector, s.deps.VisibilityTimeout)
	return check(res.Success, res.Message, err)
}

// awaitVisibility - polls fresh inspections until the element's visibility equals want
func (s *scenario) awaitVisibility(ctx context.Context, selector string, want bool) error {
	err := interaction.Poll(ctx, interaction.PollOptions{
		Timeout:  s.deps.VisibilityTimeout,
		Interval: s.session.Settings().PollInterval,
	}, func(ctx context.Context) (bool, error) {
		outcome, err := s.deps.Interactor.Inspect(ctx, s.session, selector)
		if err != nil {
			return false, err
		}
		visible := outcome.Found && outcome.Element.IsVisible
		return visible == want, nil
	})
	if errors.Is(err, entities.ErrTimeout) {
		if want {
			return fmt.Errorf("%s is not visible: %w", selector, err)
		}
		return fmt.Errorf("%s is still visible: %w", selector, err)
	}
	return err
}

func (s *scenario) shouldSee(ctx context.Context, selector string) error {
	return s.awaitVisibility(ctx, selector, true)
}

func (s *scenario) shouldNotSee(ctx context.Context, selector string) error {
	return s.awaitVisibility(ctx, selector, false)
}

func (s *scenario) shouldContain(ctx context.Context, selector, text string) error {
	outcome, err := s.deps.Interactor.Inspect(ctx, s.session, selector)
	if err != nil {
		return err
	}
	if !outcome.Found {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, selector)
	}
	if !strings.Contains(outcome.Element.TextContent, text) {
		return fmt.Errorf("%s contains %q, expected %q", selector, outcome.Element.TextContent, text)
	}
	return nil
}

func (s *scenario) screenshot(ctx context.Context, name string) error {
	res, err := s.session.Primitives().Screenshot(ctx, name)
	return check(res.Success, res.Message, err)
}
