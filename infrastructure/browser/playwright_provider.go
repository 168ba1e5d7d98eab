package browser

import (
	"bdd_automation/domain/dom"
	"bdd_automation/domain/entities"
	"bdd_automation/infrastructure/config"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// PlaywrightProvider drives Chromium through playwright-go
type PlaywrightProvider struct {
	pw         *playwright.Playwright
	browser    playwright.Browser
	context    playwright.BrowserContext
	page       playwright.Page
	pages      []playwright.Page
	pagesMutex sync.Mutex

	cfg    config.BrowserConfig
	logger *logrus.Entry
}

// NewPlaywrightProvider - starts playwright, launches Chromium and opens the first page
func NewPlaywrightProvider(cfg config.BrowserConfig, logger *logrus.Logger) (*PlaywrightProvider, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(cfg.SlowMoMs),
		Args:     cfg.Args,
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.ViewportWidth,
			Height: cfg.ViewportHeight,
		},
		IgnoreHttpsErrors: playwright.Bool(cfg.IgnoreHTTPSErrors),
		AcceptDownloads:   playwright.Bool(true),
	}
	if cfg.BaseURL != "" {
		contextOptions.BaseURL = playwright.String(cfg.BaseURL)
	}

	browserContext, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	browserContext.SetDefaultTimeout(float64(cfg.ActionTimeout.Milliseconds()))
	browserContext.SetDefaultNavigationTimeout(float64(cfg.NavigationTimeout.Milliseconds()))

	page, err := browserContext.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	provider := &PlaywrightProvider{
		pw:      pw,
		browser: browser,
		context: browserContext,
		page:    page,
		pages:   []playwright.Page{page},
		cfg:     cfg,
		logger:  logger.WithField("component", "playwright"),
	}
	provider.track(page)

	// popups and target=_blank links become the current page
	browserContext.OnPage(func(newPage playwright.Page) {
		provider.pagesMutex.Lock()
		provider.pages = append(provider.pages, newPage)
		provider.page = newPage
		provider.pagesMutex.Unlock()
		provider.track(newPage)
		provider.logger.Debugf("Switched to new page (%d open)", len(provider.pages))
	})

	return provider, nil
}

// track - auto-accepts dialogs and falls back to the first page when the current one closes
func (b *PlaywrightProvider) track(page playwright.Page) {
	page.OnDialog(func(dialog playwright.Dialog) {
		b.logger.Debugf("Accepting %s dialog: %s", dialog.Type(), dialog.Message())
		dialog.Accept()
	})
	page.OnClose(func(closedPage playwright.Page) {
		b.pagesMutex.Lock()
		defer b.pagesMutex.Unlock()

		for i, p := range b.pages {
			if p == closedPage {
				b.pages = append(b.pages[:i], b.pages[i+1:]...)
				break
			}
		}
		if b.page == closedPage && len(b.pages) > 0 {
			b.page = b.pages[0]
		}
	})
}

func (b *PlaywrightProvider) currentPage() playwright.Page {
	b.pagesMutex.Lock()
	defer b.pagesMutex.Unlock()
	return b.page
}

// outcome - page level errors become failed results, a closed browser becomes ErrTransport
func (b *PlaywrightProvider) outcome(op string, err error) (entities.ActionResult, error) {
	if err == nil {
		return entities.Succeeded("%s", op), nil
	}
	if isTransportError(err) {
		return entities.ActionResult{}, transportError(op, err)
	}
	return entities.Failed("%s failed: %v", op, err), nil
}

// timeoutMs - explicit timeout or the configured action timeout
func (b *PlaywrightProvider) timeoutMs(ms float64) *float64 {
	if ms > 0 {
		return playwright.Float(ms)
	}
	return playwright.Float(float64(b.cfg.ActionTimeout.Milliseconds()))
}

// Navigate - navigates to the specified URL
func (b *PlaywrightProvider) Navigate(ctx context.Context, url string) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "navigate"); done {
		return res, nil
	}
	b.logger.Infof("Navigating to: %s", url)
	_, err := b.currentPage().Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(b.cfg.NavigationTimeout.Milliseconds())),
	})
	return b.outcome("navigate to "+url, err)
}

// Click - clicks the first element matching selector
func (b *PlaywrightProvider) Click(ctx context.Context, selector string, opts entities.ClickOptions) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "click"); done {
		return res, nil
	}
	clickOptions := playwright.LocatorClickOptions{
		Force:   playwright.Bool(opts.Force),
		Timeout: b.timeoutMs(opts.TimeoutMs),
	}
	if opts.DelayMs > 0 {
		clickOptions.Delay = playwright.Float(opts.DelayMs)
	}
	err := b.currentPage().Locator(selector).First().Click(clickOptions)
	return b.outcome("click "+selector, err)
}

// ClickAt - raw mouse click at viewport coordinates
func (b *PlaywrightProvider) ClickAt(ctx context.Context, x, y float64) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "click at"); done {
		return res, nil
	}
	err := b.currentPage().Mouse().Click(x, y)
	return b.outcome(fmt.Sprintf("click at (%.1f, %.1f)", x, y), err)
}

// Fill - replaces the value of an input
func (b *PlaywrightProvider) Fill(ctx context.Context, selector string, text string) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "fill"); done {
		return res, nil
	}
	err := b.currentPage().Locator(selector).First().Fill(text, playwright.LocatorFillOptions{
		Timeout: b.timeoutMs(0),
	})
	return b.outcome("fill "+selector, err)
}

// Hover - moves the pointer over an element
func (b *PlaywrightProvider) Hover(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "hover"); done {
		return res, nil
	}
	err := b.currentPage().Locator(selector).First().Hover(playwright.LocatorHoverOptions{
		Timeout: b.timeoutMs(float64(timeout.Milliseconds())),
	})
	return b.outcome("hover "+selector, err)
}

// PressKey - presses a key on the focused element
func (b *PlaywrightProvider) PressKey(ctx context.Context, key string) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "press key"); done {
		return res, nil
	}
	err := b.currentPage().Keyboard().Press(key)
	return b.outcome("press "+key, err)
}

// DispatchEvent - dispatches a DOM event on the first matching element
func (b *PlaywrightProvider) DispatchEvent(ctx context.Context, selector string, eventType string, props map[string]interface{}) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "dispatch"); done {
		return res, nil
	}
	err := b.currentPage().Locator(selector).First().DispatchEvent(eventType, props, playwright.LocatorDispatchEventOptions{
		Timeout: b.timeoutMs(0),
	})
	return b.outcome(fmt.Sprintf("dispatch %s on %s", eventType, selector), err)
}

// Evaluate - calls a script function with one argument
func (b *PlaywrightProvider) Evaluate(ctx context.Context, script string, arg interface{}) (entities.EvalResult, error) {
	if res, done := canceled(ctx, "evaluate"); done {
		return entities.EvalResult{ActionResult: res}, nil
	}
	value, err := b.currentPage().Evaluate(script, arg)
	res, err := b.outcome("evaluate", err)
	return entities.EvalResult{ActionResult: res, Value: value}, err
}

// QueryElements - text and visibility of every element matching selector
func (b *PlaywrightProvider) QueryElements(ctx context.Context, selector string) (entities.QueryResult, error) {
	evaluated, err := b.Evaluate(ctx, dom.QueryElements, selector)
	return queryResult(selector, evaluated, err)
}

// InspectDetailed - raw descriptor of the first matching element
func (b *PlaywrightProvider) InspectDetailed(ctx context.Context, selector string) (entities.InspectResult, error) {
	evaluated, err := b.Evaluate(ctx, dom.InspectElement, selector)
	return inspectResult(selector, evaluated, err)
}

// Screenshot - captures the current page into the screenshot directory
func (b *PlaywrightProvider) Screenshot(ctx context.Context, name string) (entities.ScreenshotResult, error) {
	if res, done := canceled(ctx, "screenshot"); done {
		return entities.ScreenshotResult{ActionResult: res}, nil
	}
	path, err := screenshotPath(b.cfg.ScreenshotDir, name)
	if err != nil {
		return entities.ScreenshotResult{ActionResult: entities.Failed("%v", err)}, nil
	}
	_, err = b.currentPage().Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	res, err := b.outcome("screenshot "+path, err)
	if !res.Success {
		path = ""
	}
	return entities.ScreenshotResult{ActionResult: res, Path: path}, err
}

// WaitForSelector - waits until an element matching selector is visible
func (b *PlaywrightProvider) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "wait"); done {
		return res, nil
	}
	err := b.currentPage().Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: b.timeoutMs(float64(timeout.Milliseconds())),
	})
	return b.outcome("wait for "+selector, err)
}

// Close - closes the browser and stops the playwright driver
func (b *PlaywrightProvider) Close() error {
	var firstErr error
	if b.browser != nil {
		if err := b.browser.Close(); err != nil && !isTransportError(err) {
			firstErr = fmt.Errorf("failed to close browser: %w", err)
		}
	}
	if b.pw != nil {
		if err := b.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
	}
	return firstErr
}
