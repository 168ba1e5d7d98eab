package interaction

import (
	"bdd_automation/domain/entities"
	"context"
)

// Interactor groups the core entry points used by step definitions and tool handlers
type Interactor struct {
	inspector  Inspector
	resolver   *ClickResolver
	dropdowns  DropdownSelector
	positioner Positioner
}

// NewInteractor - creates an interactor with the default click strategies
func NewInteractor() *Interactor {
	return &Interactor{resolver: NewClickResolver()}
}

// Inspect - fresh descriptor of the first element matching selector
func (i *Interactor) Inspect(ctx context.Context, s *Session, selector string) (InspectOutcome, error) {
	return i.inspector.Inspect(ctx, s, selector)
}

// Click - click with strategy escalation and retry rounds from the session settings
func (i *Interactor) Click(ctx context.Context, s *Session, selector string) (entities.AttemptResult, error) {
	return i.resolver.Resolve(ctx, s, selector, ResolveOptions{})
}

// ClickWith - click with explicit round settings
func (i *Interactor) ClickWith(ctx context.Context, s *Session, selector string, opts ResolveOptions) (entities.AttemptResult, error) {
	return i.resolver.Resolve(ctx, s, selector, opts)
}

// SelectOption - pick an option from a custom dropdown
func (i *Interactor) SelectOption(ctx context.Context, s *Session, trigger entities.DropdownTrigger, target entities.DropdownSelectionTarget) (entities.AttemptResult, error) {
	return i.dropdowns.SelectOption(ctx, s, trigger, target)
}

// RelativeClick - click at an offset from a reference element
func (i *Interactor) RelativeClick(ctx context.Context, s *Session, reference string, offsetX, offsetY float64, fromCenter bool) (entities.AttemptResult, error) {
	return i.positioner.RelativeClick(ctx, s, reference, offsetX, offsetY, fromCenter)
}
