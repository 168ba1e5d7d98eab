package interaction

import (
	"bdd_automation/domain/entities"
	"context"
	"fmt"
)

// Positioner clicks raw coordinates computed from a reference element's box
type Positioner struct{}

// RelativeClick - clicks at an offset from the reference's top-left corner, or from its
// centre when fromCenter is set. Fails without clicking when the reference is missing
// or has no measurable area.
func (Positioner) RelativeClick(ctx context.Context, s *Session, reference string, offsetX, offsetY float64, fromCenter bool) (entities.AttemptResult, error) {
	if err := s.check(); err != nil {
		return failure("%v", err), err
	}
	outcome, err := Inspector{}.Inspect(ctx, s, reference)
	if err != nil {
		return failure("measuring %s aborted: %v", reference, err), err
	}
	if !outcome.Found {
		return failure("%v: reference %s; no click attempted", entities.ErrNotFound, reference), nil
	}
	box := outcome.Element.BoundingBox
	if box.Area() <= 0 {
		return failure("%v: reference %s has no measurable area; no click attempted", entities.ErrNotActionable, reference), nil
	}

	x, y := box.X, box.Y
	if fromCenter {
		x, y = box.Center()
	}
	x += offsetX
	y += offsetY

	res, err := s.Primitives().ClickAt(ctx, x, y)
	if err != nil {
		return failure("click at (%.1f, %.1f) aborted: %v", x, y, err), err
	}
	result := entities.AttemptResult{
		Success:      res.Success,
		Message:      fmt.Sprintf("click at (%.1f, %.1f) relative to %s: %s", x, y, reference, res.Message),
		StrategyUsed: string(entities.StrategyCoordinate),
	}
	if !res.Success {
		result.StrategyUsed = string(entities.StrategyNone)
	}
	return result, nil
}
