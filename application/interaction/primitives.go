package interaction

import (
	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
	"context"
	"errors"
	"fmt"
	"time"
)

// Primitives is a thin one-to-one adapter over the provider. It adds no retry or
// fallback logic; it only guarantees that provider errors carry entities.ErrTransport.
type Primitives struct {
	provider interfaces.ActionProvider
}

// transport - classifies a provider error as a transport failure
func transport(op string, err error) error {
	if err == nil || errors.Is(err, entities.ErrTransport) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, entities.ErrTransport, err)
}

// Navigate - navigates the page to url
func (p Primitives) Navigate(ctx context.Context, url string) (entities.ActionResult, error) {
	res, err := p.provider.Navigate(ctx, url)
	return res, transport("navigate", err)
}

// Click - actionability-checked click, bounded by timeout
func (p Primitives) Click(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	res, err := p.provider.Click(ctx, selector, entities.ClickOptions{TimeoutMs: float64(timeout.Milliseconds())})
	return res, transport("click", err)
}

// ForceClick - click that skips the engine actionability wait
func (p Primitives) ForceClick(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	res, err := p.provider.Click(ctx, selector, entities.ClickOptions{Force: true, TimeoutMs: float64(timeout.Milliseconds())})
	return res, transport("force click", err)
}

// ClickAt - raw mouse click at viewport coordinates
func (p Primitives) ClickAt(ctx context.Context, x, y float64) (entities.ActionResult, error) {
	res, err := p.provider.ClickAt(ctx, x, y)
	return res, transport("click at", err)
}

// Hover - moves the pointer over an element, bounded by timeout
func (p Primitives) Hover(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	res, err := p.provider.Hover(ctx, selector, timeout)
	return res, transport("hover", err)
}

// Fill - replaces the value of an input
func (p Primitives) Fill(ctx context.Context, selector, text string) (entities.ActionResult, error) {
	res, err := p.provider.Fill(ctx, selector, text)
	return res, transport("fill", err)
}

// PressKey - presses a key on the focused element
func (p Primitives) PressKey(ctx context.Context, key string) (entities.ActionResult, error) {
	res, err := p.provider.PressKey(ctx, key)
	return res, transport("press key", err)
}

// DispatchEvent - dispatches a DOM event of eventType on an element
func (p Primitives) DispatchEvent(ctx context.Context, selector, eventType string, props map[string]interface{}) (entities.ActionResult, error) {
	res, err := p.provider.DispatchEvent(ctx, selector, eventType, props)
	return res, transport("dispatch "+eventType, err)
}

// Evaluate - runs a page script with one JSON argument
func (p Primitives) Evaluate(ctx context.Context, script string, arg interface{}) (entities.EvalResult, error) {
	res, err := p.provider.Evaluate(ctx, script, arg)
	return res, transport("evaluate", err)
}

// Query - text and visibility of every element matching selector
func (p Primitives) Query(ctx context.Context, selector string) (entities.QueryResult, error) {
	res, err := p.provider.QueryElements(ctx, selector)
	return res, transport("query", err)
}

// InspectDetailed - raw descriptor of the first element matching selector
func (p Primitives) InspectDetailed(ctx context.Context, selector string) (entities.InspectResult, error) {
	res, err := p.provider.InspectDetailed(ctx, selector)
	return res, transport("inspect", err)
}

// Screenshot - saves a screenshot under name
func (p Primitives) Screenshot(ctx context.Context, name string) (entities.ScreenshotResult, error) {
	res, err := p.provider.Screenshot(ctx, name)
	return res, transport("screenshot", err)
}

// WaitForSelector - waits up to timeout for selector to become visible
func (p Primitives) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	res, err := p.provider.WaitForSelector(ctx, selector, timeout)
	return res, transport("wait for selector", err)
}
