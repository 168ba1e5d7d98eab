package interfaces

import (
	"bdd_automation/domain/entities"
	"context"
	"time"
)

// ActionProvider defines the browser automation capabilities the interaction core consumes.
// Operations never report page-level failures as errors: they return a result with
// Success=false. A non-nil error means the provider itself is unreachable and wraps
// entities.ErrTransport.
type ActionProvider interface {
	// Navigate opens a URL in the current page
	Navigate(ctx context.Context, url string) (entities.ActionResult, error)

	// Click clicks the first element matching selector
	Click(ctx context.Context, selector string, opts entities.ClickOptions) (entities.ActionResult, error)

	// ClickAt performs a raw mouse click at viewport coordinates
	ClickAt(ctx context.Context, x, y float64) (entities.ActionResult, error)

	// Fill replaces the value of an input
	Fill(ctx context.Context, selector string, text string) (entities.ActionResult, error)

	// Hover moves the pointer over an element, waiting at most timeout for it to become
	// hoverable; zero means the provider default
	Hover(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error)

	// PressKey presses a key on the focused element
	PressKey(ctx context.Context, key string) (entities.ActionResult, error)

	// DispatchEvent dispatches a DOM event of the given type on an element
	DispatchEvent(ctx context.Context, selector string, eventType string, props map[string]interface{}) (entities.ActionResult, error)

	// Evaluate calls a pre-defined script function with a single JSON-serializable argument
	Evaluate(ctx context.Context, script string, arg interface{}) (entities.EvalResult, error)

	// QueryElements lists text and visibility of all elements matching selector
	QueryElements(ctx context.Context, selector string) (entities.QueryResult, error)

	// InspectDetailed returns the raw descriptor of the first matching element
	InspectDetailed(ctx context.Context, selector string) (entities.InspectResult, error)

	// Screenshot captures the current page
	Screenshot(ctx context.Context, name string) (entities.ScreenshotResult, error)

	// WaitForSelector waits until an element matching selector is visible
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error)

	// Close closes the browser
	Close() error
}

// ProviderFactory starts a fresh, isolated browser for one scenario or tool session
type ProviderFactory interface {
	NewProvider(ctx context.Context) (ActionProvider, error)
}

// ProviderFactoryFunc adapts a function to ProviderFactory
type ProviderFactoryFunc func(ctx context.Context) (ActionProvider, error)

// NewProvider - calls f
func (f ProviderFactoryFunc) NewProvider(ctx context.Context) (ActionProvider, error) {
	return f(ctx)
}
