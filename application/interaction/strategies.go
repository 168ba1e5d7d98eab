package interaction

import (
	"bdd_automation/domain/dom"
	"bdd_automation/domain/entities"
	"context"
	"fmt"
)

// AttemptFunc performs one interaction attempt. ok=false with a message is an ordinary
// failure; err is reserved for failures of the provider itself.
type AttemptFunc func(ctx context.Context, s *Session, selector string) (ok bool, message string, err error)

// Strategy is one named way of activating an element
type Strategy struct {
	Name    entities.StrategyName
	Attempt AttemptFunc
}

// syntheticSequence is the pointer event order a real click produces
var syntheticSequence = []string{"mousedown", "mouseup", "click"}

// eventInit - init dict for dispatched pointer events
func eventInit() map[string]interface{} {
	return map[string]interface{}{"bubbles": true, "cancelable": true, "button": 0}
}

// DefaultStrategies - the fixed escalation order, most natural first
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: entities.StrategyStandard, Attempt: standardInvoke},
		{Name: entities.StrategyForce, Attempt: forceInvoke},
		{Name: entities.StrategyHover, Attempt: hoverThenInvoke},
		{Name: entities.StrategyScript, Attempt: scriptInvoke},
		{Name: entities.StrategySynthetic, Attempt: syntheticEventSequence},
	}
}

// CoordinateStrategy - clicks the raw centre point of the element
func CoordinateStrategy() Strategy {
	return Strategy{Name: entities.StrategyCoordinate, Attempt: coordinateInvoke}
}

func standardInvoke(ctx context.Context, s *Session, selector string) (bool, string, error) {
	res, err := s.Primitives().Click(ctx, selector, s.settings.StrategyTimeout)
	return res.Success, res.Message, err
}

func forceInvoke(ctx context.Context, s *Session, selector string) (bool, string, error) {
	res, err := s.Primitives().ForceClick(ctx, selector, s.settings.StrategyTimeout)
	return res.Success, res.Message, err
}

func hoverThenInvoke(ctx context.Context, s *Session, selector string) (bool, string, error) {
	prim := s.Primitives()
	res, err := prim.Hover(ctx, selector, s.settings.StrategyTimeout)
	if err != nil || !res.Success {
		return false, "hover: " + res.Message, err
	}
	res, err = prim.Click(ctx, selector, s.settings.StrategyTimeout)
	return res.Success, res.Message, err
}

// requireRendered - script level strategies bypass actionability checks, so they are
// only attempted on elements that are attached and not inside a display:none subtree
func requireRendered(ctx context.Context, s *Session, selector string) (bool, string, error) {
	outcome, err := Inspector{}.Inspect(ctx, s, selector)
	if err != nil {
		return false, "", err
	}
	if !outcome.Found {
		return false, outcome.Message, nil
	}
	if !outcome.Element.InLayout {
		return false, fmt.Sprintf("%v: element is not rendered", entities.ErrNotActionable), nil
	}
	return true, "", nil
}

func scriptInvoke(ctx context.Context, s *Session, selector string) (bool, string, error) {
	if ok, msg, err := requireRendered(ctx, s, selector); !ok {
		return false, msg, err
	}
	res, err := s.Primitives().Evaluate(ctx, dom.ScriptClick, selector)
	if err != nil {
		return false, "", err
	}
	if !res.Success {
		return false, res.Message, nil
	}
	var out entities.ActionResult
	if err := res.Decode(&out); err != nil {
		return false, err.Error(), nil
	}
	return out.Success, out.Message, nil
}

func syntheticEventSequence(ctx context.Context, s *Session, selector string) (bool, string, error) {
	if ok, msg, err := requireRendered(ctx, s, selector); !ok {
		return false, msg, err
	}
	prim := s.Primitives()
	for _, eventType := range syntheticSequence {
		res, err := prim.DispatchEvent(ctx, selector, eventType, eventInit())
		if err != nil {
			return false, "", err
		}
		if !res.Success {
			return false, fmt.Sprintf("%s: %s", eventType, res.Message), nil
		}
	}
	return true, "dispatched mousedown, mouseup and click", nil
}

func coordinateInvoke(ctx context.Context, s *Session, selector string) (bool, string, error) {
	res, err := Positioner{}.RelativeClick(ctx, s, selector, 0, 0, true)
	return res.Success, res.Message, err
}
