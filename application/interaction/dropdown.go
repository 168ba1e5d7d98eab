package interaction

import (
	"bdd_automation/domain/dom"
	"bdd_automation/domain/entities"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DropdownSelector picks options from Select2-style widgets that render their option
// list in a detached container and ignore native selection APIs
type DropdownSelector struct{}

type scannedOption struct {
	Tag      string                     `json:"tag"`
	Text     string                     `json:"text"`
	Role     string                     `json:"role"`
	Disabled bool                       `json:"disabled"`
	Element  entities.ElementDescriptor `json:"element"`
}

type scannedContainer struct {
	Tag     string                     `json:"tag"`
	Index   int                        `json:"index"`
	Element entities.ElementDescriptor `json:"element"`
	Options []scannedOption            `json:"options"`
}

func scanSelector(tag string) string {
	return fmt.Sprintf(`[data-bdd-scan="%s"]`, tag)
}

// SelectOption - opens the dropdown, waits for its options, dispatches the pointer
// sequence on the chosen option and confirms the list closed
func (d DropdownSelector) SelectOption(ctx context.Context, s *Session, trigger entities.DropdownTrigger, target entities.DropdownSelectionTarget) (entities.AttemptResult, error) {
	if err := s.check(); err != nil {
		return failure("%v", err), err
	}
	if trigger.Label == "" && trigger.Selector == "" {
		return failure("dropdown trigger needs a label or a selector"), nil
	}
	if target.Text == "" && target.Index <= 0 {
		return failure("invalid %s: index is 1-based", target), nil
	}

	log := s.log.WithFields(logrus.Fields{"component": "dropdown", "trigger": trigger.String(), "target": target.String()})

	if res, err := d.open(ctx, s, trigger); err != nil || !res.Success {
		return res, err
	}

	container, res, err := d.awaitOptions(ctx, s, trigger)
	if err != nil || !res.Success {
		return res, err
	}

	option, res := chooseOption(container.ValidOptions(), target)
	if !res.Success {
		return res, nil
	}
	if !target.IsIndex() && !strings.EqualFold(strings.TrimSpace(option.Text), strings.TrimSpace(target.Text)) {
		log.Infof("Using option %q for %s", option.Text, target)
	}

	prim := s.Primitives()
	for _, eventType := range syntheticSequence {
		dispatched, err := prim.DispatchEvent(ctx, option.Selector, eventType, eventInit())
		if err != nil {
			return failure("selecting %s aborted: %v", target, err), err
		}
		if !dispatched.Success {
			return failure("dispatching %s on option %q failed: %s", eventType, option.Text, dispatched.Message), nil
		}
	}

	if err := d.awaitClosed(ctx, s, container.Selector); err != nil {
		if errors.Is(err, entities.ErrTransport) {
			return failure("selecting %s aborted: %v", target, err), err
		}
		log.Warnf("Dropdown stayed open after selecting %q: %v", option.Text, err)
		return failure("%s stayed open after selecting %q: %v", trigger, option.Text, err), nil
	}

	log.Infof("Selected %q", option.Text)
	return entities.AttemptResult{
		Success:      true,
		Message:      fmt.Sprintf("selected %q from %s", option.Text, trigger),
		StrategyUsed: string(entities.StrategyDropdown),
	}, nil
}

// open - locates the trigger and sends it the mousedown Select2 listens for
func (d DropdownSelector) open(ctx context.Context, s *Session, trigger entities.DropdownTrigger) (entities.AttemptResult, error) {
	token := uuid.NewString()
	prim := s.Primitives()

	res, err := prim.Evaluate(ctx, dom.LocateDropdownTrigger, map[string]interface{}{
		"label":    trigger.Label,
		"selector": trigger.Selector,
		"token":    token,
	})
	if err != nil {
		return failure("locating %s aborted: %v", trigger, err), err
	}
	if !res.Success {
		return failure("locating %s failed: %s", trigger, res.Message), nil
	}
	var located struct {
		Found bool `json:"found"`
	}
	if err := res.Decode(&located); err != nil || !located.Found {
		return failure("%v: could not locate %s", entities.ErrNotFound, trigger), nil
	}

	triggerSelector := fmt.Sprintf(`[data-bdd-trigger="%s"]`, token)
	opened, err := prim.DispatchEvent(ctx, triggerSelector, "mousedown", eventInit())
	if err != nil {
		return failure("opening %s aborted: %v", trigger, err), err
	}
	if !opened.Success {
		return failure("opening %s failed: %s", trigger, opened.Message), nil
	}
	return entities.AttemptResult{Success: true}, nil
}

// awaitOptions - polls until the topmost visible container has a selectable option, or has finished loading
func (d DropdownSelector) awaitOptions(ctx context.Context, s *Session, trigger entities.DropdownTrigger) (entities.DropdownContainer, entities.AttemptResult, error) {
	var (
		top   entities.DropdownContainer
		found bool
	)
	err := Poll(ctx, PollOptions{Timeout: s.settings.DropdownOpenTimeout, Interval: s.settings.PollInterval},
		func(ctx context.Context) (bool, error) {
			containers, err := d.scan(ctx, s)
			if err != nil {
				return false, err
			}
			top, found = entities.TopmostContainer(containers)
			if !found {
				return false, nil
			}
			return len(top.ValidOptions()) > 0 || (!top.IsLoading() && len(top.Options) > 0), nil
		})
	if err != nil {
		if errors.Is(err, entities.ErrTransport) {
			return top, failure("waiting for %s aborted: %v", trigger, err), err
		}
		if !found {
			return top, failure("%s did not open: %v", trigger, err), nil
		}
		if top.IsLoading() && len(top.ValidOptions()) == 0 {
			return top, failure("%s is still loading options: %v", trigger, err), nil
		}
	}
	if len(top.ValidOptions()) == 0 {
		return top, failure("%v: %s has no selectable options", entities.ErrNotFound, trigger), nil
	}
	return top, entities.AttemptResult{Success: true}, nil
}

// scan - enumerates candidate containers and their options with freshly computed validity
func (d DropdownSelector) scan(ctx context.Context, s *Session) ([]entities.DropdownContainer, error) {
	res, err := s.Primitives().Evaluate(ctx, dom.ScanDropdowns, map[string]interface{}{
		"containerSelector": s.settings.DropdownContainerSelectors,
		"optionSelector":    s.settings.DropdownOptionSelector,
		"token":             uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, nil
	}
	var scanned []scannedContainer
	if err := res.Decode(&scanned); err != nil {
		s.log.Debugf("Ignoring malformed dropdown scan: %v", err)
		return nil, nil
	}

	containers := make([]entities.DropdownContainer, 0, len(scanned))
	for _, sc := range scanned {
		container := entities.DropdownContainer{
			Selector:      scanSelector(sc.Tag),
			DocumentIndex: sc.Index,
			Element:       sc.Element,
			Options:       make([]entities.OptionCandidate, 0, len(sc.Options)),
		}
		container.Element.Normalize()
		for _, so := range sc.Options {
			opt := entities.OptionCandidate{
				Selector: scanSelector(so.Tag),
				Text:     strings.TrimSpace(so.Text),
				Role:     so.Role,
				Disabled: so.Disabled,
				Element:  so.Element,
			}
			opt.Element.Normalize()
			opt.IsValid = entities.OptionValidity(opt)
			container.Options = append(container.Options, opt)
		}
		containers = append(containers, container)
	}
	return containers, nil
}

// awaitClosed - the selection counts only once the clicked container is hidden or removed
func (d DropdownSelector) awaitClosed(ctx context.Context, s *Session, containerSelector string) error {
	return Poll(ctx, PollOptions{Timeout: s.settings.DropdownCloseTimeout, Interval: s.settings.PollInterval},
		func(ctx context.Context) (bool, error) {
			outcome, err := Inspector{}.Inspect(ctx, s, containerSelector)
			if err != nil {
				return false, err
			}
			return !outcome.Found || !outcome.Element.IsVisible, nil
		})
}

// chooseOption - index targets address valid options 1-based; text targets match exactly,
// then by case-insensitive substring, then fall back to the first valid option
func chooseOption(valid []entities.OptionCandidate, target entities.DropdownSelectionTarget) (entities.OptionCandidate, entities.AttemptResult) {
	ok := entities.AttemptResult{Success: true}
	if target.IsIndex() {
		if target.Index < 1 || target.Index > len(valid) {
			return entities.OptionCandidate{}, failure("%v: %s is out of range, %d selectable option(s)",
				entities.ErrNotFound, target, len(valid))
		}
		return valid[target.Index-1], ok
	}
	if len(valid) == 0 {
		return entities.OptionCandidate{}, failure("%v: no selectable option for %s", entities.ErrNotFound, target)
	}

	wanted := strings.TrimSpace(target.Text)
	for _, opt := range valid {
		if opt.Text == wanted {
			return opt, ok
		}
	}
	lower := strings.ToLower(wanted)
	for _, opt := range valid {
		if strings.Contains(strings.ToLower(opt.Text), lower) {
			return opt, ok
		}
	}
	return valid[0], ok
}
