package browser

import (
	"bdd_automation/domain/dom"
	"bdd_automation/domain/entities"
	"bdd_automation/infrastructure/config"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// SeleniumProvider drives Chrome through chromedriver
type SeleniumProvider struct {
	wd      selenium.WebDriver
	service *selenium.Service
	cfg     config.BrowserConfig
	logger  *logrus.Entry
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}
	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found, install it or set BDD_BROWSER_DRIVER_PATH")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
	}
	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// chromeArgs - launch flags for chromedriver sessions
func chromeArgs(cfg config.BrowserConfig) []string {
	args := append([]string{}, cfg.Args...)
	if cfg.Headless {
		args = append(args, "--headless=new")
	}
	if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 {
		args = append(args, fmt.Sprintf("--window-size=%d,%d", cfg.ViewportWidth, cfg.ViewportHeight))
	}
	if cfg.IgnoreHTTPSErrors {
		args = append(args, "--ignore-certificate-errors")
	}
	return args
}

// NewSeleniumProvider - starts chromedriver and opens a fresh browser session
func NewSeleniumProvider(cfg config.BrowserConfig, logger *logrus.Logger) (*SeleniumProvider, error) {
	driverPath, err := findChromeDriver(cfg.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	chromeBinary := findChromeBinary(cfg.ChromeBinary)
	if chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
	}

	port := cfg.DriverPort
	if port == 0 {
		port = 9515
	}
	service, err := selenium.NewChromeDriverService(driverPath, port)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	chromeCaps := chrome.Capabilities{Args: chromeArgs(cfg)}
	if chromeBinary != "" {
		chromeCaps.Path = chromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found, set BDD_BROWSER_CHROME_BINARY: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}
	if cfg.NavigationTimeout > 0 {
		if err := wd.SetPageLoadTimeout(cfg.NavigationTimeout); err != nil {
			logger.Warnf("Failed to set page load timeout: %v", err)
		}
	}

	return &SeleniumProvider{
		wd:      wd,
		service: service,
		cfg:     cfg,
		logger:  logger.WithField("component", "selenium"),
	}, nil
}

// outcome - WebDriver errors split into failed results and transport failures
func (s *SeleniumProvider) outcome(op string, err error) (entities.ActionResult, error) {
	if err == nil {
		return entities.Succeeded("%s", op), nil
	}
	if isTransportError(err) {
		return entities.ActionResult{}, transportError(op, err)
	}
	return entities.Failed("%s failed: %v", op, err), nil
}

// findElement - CSS selectors, with XPath accepted for expressions starting with / or (
func (s *SeleniumProvider) findElement(selector string) (selenium.WebElement, error) {
	by := selenium.ByCSSSelector
	if strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(") {
		by = selenium.ByXPATH
	}
	return s.wd.FindElement(by, selector)
}

// awaitDisplayed - waits until the element exists and is displayed
func (s *SeleniumProvider) awaitDisplayed(selector string, timeout time.Duration) (selenium.WebElement, error) {
	if timeout <= 0 {
		timeout = s.cfg.ActionTimeout
	}
	var found selenium.WebElement
	err := s.wd.WaitWithTimeoutAndInterval(func(wd selenium.WebDriver) (bool, error) {
		element, err := s.findElement(selector)
		if err != nil {
			if isTransportError(err) {
				return false, err
			}
			return false, nil
		}
		displayed, err := element.IsDisplayed()
		if err != nil {
			if isTransportError(err) {
				return false, err
			}
			return false, nil
		}
		if displayed {
			found = element
		}
		return displayed, nil
	}, timeout, 100*time.Millisecond)
	return found, err
}

// script - wraps a function expression as a WebDriver script body
func script(fn string) string {
	return "return (" + fn + ")(arguments[0]);"
}

// Navigate - navigates browser to specified URL
func (s *SeleniumProvider) Navigate(ctx context.Context, url string) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "navigate"); done {
		return res, nil
	}
	if s.cfg.BaseURL != "" && strings.HasPrefix(url, "/") {
		url = strings.TrimSuffix(s.cfg.BaseURL, "/") + url
	}
	s.logger.Infof("Navigating to: %s", url)
	return s.outcome("navigate to "+url, s.wd.Get(url))
}

// Click - clicks on element identified by selector; Force skips the displayed check
func (s *SeleniumProvider) Click(ctx context.Context, selector string, opts entities.ClickOptions) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "click"); done {
		return res, nil
	}
	if opts.Force {
		return s.forceClick(ctx, selector, opts)
	}

	element, err := s.awaitDisplayed(selector, time.Duration(opts.TimeoutMs)*time.Millisecond)
	if err != nil || element == nil {
		if isTransportError(err) {
			return entities.ActionResult{}, transportError("click "+selector, err)
		}
		return entities.Failed("click %s failed: element not found or not visible", selector), nil
	}
	return s.nativeClick("click "+selector, element, opts)
}

// forceClick - native click without the displayed wait. Elements outside the layout
// (detached or under a display:none ancestor) are refused.
func (s *SeleniumProvider) forceClick(ctx context.Context, selector string, opts entities.ClickOptions) (entities.ActionResult, error) {
	op := "force click " + selector
	inspected, err := s.InspectDetailed(ctx, selector)
	if err != nil || !inspected.Success {
		return inspected.ActionResult, err
	}
	if !inspected.Found {
		return entities.Failed("%s failed: element not found", op), nil
	}
	if !inspected.Element.InLayout {
		return entities.Failed("%s failed: element is not rendered", op), nil
	}
	element, err := s.findElement(selector)
	if err != nil {
		return s.outcome(op, err)
	}
	return s.nativeClick(op, element, opts)
}

// nativeClick - scrolls element into view and clicks it through WebDriver
func (s *SeleniumProvider) nativeClick(op string, element selenium.WebElement, opts entities.ClickOptions) (entities.ActionResult, error) {
	if _, err := s.wd.ExecuteScript("arguments[0].scrollIntoView({block: 'center'}); return true;", []interface{}{element}); err != nil {
		s.logger.Warnf("Failed to scroll to element: %v", err)
		if err := element.MoveTo(0, 0); err != nil {
			s.logger.Warnf("Failed to move to element: %v", err)
		}
	}
	if opts.DelayMs > 0 {
		time.Sleep(time.Duration(opts.DelayMs) * time.Millisecond)
	}
	return s.outcome(op, element.Click())
}

// ClickAt - dispatches a pointer sequence at viewport coordinates
func (s *SeleniumProvider) ClickAt(ctx context.Context, x, y float64) (entities.ActionResult, error) {
	evaluated, err := s.Evaluate(ctx, dom.ClickAtPoint, map[string]interface{}{"x": x, "y": y})
	if err != nil || !evaluated.Success {
		return evaluated.ActionResult, err
	}
	var res entities.ActionResult
	if err := evaluated.Decode(&res); err != nil {
		return entities.Failed("click at (%.1f, %.1f): %v", x, y, err), nil
	}
	return res, nil
}

// Fill - clears an input and types text into it
func (s *SeleniumProvider) Fill(ctx context.Context, selector string, text string) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "fill"); done {
		return res, nil
	}
	element, err := s.awaitDisplayed(selector, 0)
	if err != nil || element == nil {
		if isTransportError(err) {
			return entities.ActionResult{}, transportError("fill "+selector, err)
		}
		return entities.Failed("fill %s failed: input not found", selector), nil
	}
	if err := element.Clear(); err != nil {
		s.logger.Warnf("Failed to clear element: %v", err)
	}
	return s.outcome("fill "+selector, element.SendKeys(text))
}

// Hover - moves the pointer over an element
func (s *SeleniumProvider) Hover(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "hover"); done {
		return res, nil
	}
	element, err := s.awaitDisplayed(selector, timeout)
	if err != nil || element == nil {
		if isTransportError(err) {
			return entities.ActionResult{}, transportError("hover "+selector, err)
		}
		return entities.Failed("hover %s failed: element not found or not visible", selector), nil
	}
	return s.outcome("hover "+selector, element.MoveTo(0, 0))
}

// seleniumKeys maps DOM key names to WebDriver key codes
var seleniumKeys = map[string]string{
	"Enter":      selenium.EnterKey,
	"Tab":        selenium.TabKey,
	"Escape":     selenium.EscapeKey,
	"Backspace":  selenium.BackspaceKey,
	"Delete":     selenium.DeleteKey,
	"Space":      selenium.SpaceKey,
	"ArrowUp":    selenium.UpArrowKey,
	"ArrowDown":  selenium.DownArrowKey,
	"ArrowLeft":  selenium.LeftArrowKey,
	"ArrowRight": selenium.RightArrowKey,
	"Home":       selenium.HomeKey,
	"End":        selenium.EndKey,
	"PageUp":     selenium.PageUpKey,
	"PageDown":   selenium.PageDownKey,
}

// keyCode - WebDriver representation of a key name; single characters pass through
func keyCode(key string) (string, bool) {
	if code, ok := seleniumKeys[key]; ok {
		return code, true
	}
	if len([]rune(key)) == 1 {
		return key, true
	}
	return "", false
}

// PressKey - sends a key to the focused element
func (s *SeleniumProvider) PressKey(ctx context.Context, key string) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "press key"); done {
		return res, nil
	}
	code, ok := keyCode(key)
	if !ok {
		return entities.Failed("unsupported key %q", key), nil
	}
	active, err := s.wd.ActiveElement()
	if err != nil {
		return s.outcome("press "+key, err)
	}
	return s.outcome("press "+key, active.SendKeys(code))
}

// DispatchEvent - dispatches a bubbling DOM event through a page script
func (s *SeleniumProvider) DispatchEvent(ctx context.Context, selector string, eventType string, props map[string]interface{}) (entities.ActionResult, error) {
	evaluated, err := s.Evaluate(ctx, dom.DispatchEvent, map[string]interface{}{
		"selector": selector,
		"type":     eventType,
		"init":     props,
	})
	if err != nil || !evaluated.Success {
		return evaluated.ActionResult, err
	}
	var res entities.ActionResult
	if err := evaluated.Decode(&res); err != nil {
		return entities.Failed("dispatch %s on %s: %v", eventType, selector, err), nil
	}
	return res, nil
}

// Evaluate - runs a script function with one argument
func (s *SeleniumProvider) Evaluate(ctx context.Context, fn string, arg interface{}) (entities.EvalResult, error) {
	if res, done := canceled(ctx, "evaluate"); done {
		return entities.EvalResult{ActionResult: res}, nil
	}
	value, err := s.wd.ExecuteScript(script(fn), []interface{}{arg})
	res, err := s.outcome("evaluate", err)
	return entities.EvalResult{ActionResult: res, Value: value}, err
}

// QueryElements - text and visibility of every element matching selector
func (s *SeleniumProvider) QueryElements(ctx context.Context, selector string) (entities.QueryResult, error) {
	evaluated, err := s.Evaluate(ctx, dom.QueryElements, selector)
	return queryResult(selector, evaluated, err)
}

// InspectDetailed - raw descriptor of the first matching element
func (s *SeleniumProvider) InspectDetailed(ctx context.Context, selector string) (entities.InspectResult, error) {
	evaluated, err := s.Evaluate(ctx, dom.InspectElement, selector)
	return inspectResult(selector, evaluated, err)
}

// Screenshot - writes a PNG of the current page
func (s *SeleniumProvider) Screenshot(ctx context.Context, name string) (entities.ScreenshotResult, error) {
	if res, done := canceled(ctx, "screenshot"); done {
		return entities.ScreenshotResult{ActionResult: res}, nil
	}
	path, err := screenshotPath(s.cfg.ScreenshotDir, name)
	if err != nil {
		return entities.ScreenshotResult{ActionResult: entities.Failed("%v", err)}, nil
	}
	data, err := s.wd.Screenshot()
	if err != nil {
		res, err := s.outcome("screenshot", err)
		return entities.ScreenshotResult{ActionResult: res}, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return entities.ScreenshotResult{ActionResult: entities.Failed("failed to write screenshot: %v", err)}, nil
	}
	return entities.ScreenshotResult{ActionResult: entities.Succeeded("screenshot %s", path), Path: path}, nil
}

// WaitForSelector - waits until an element matching selector is displayed
func (s *SeleniumProvider) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	if res, done := canceled(ctx, "wait"); done {
		return res, nil
	}
	element, err := s.awaitDisplayed(selector, timeout)
	if isTransportError(err) {
		return entities.ActionResult{}, transportError("wait for "+selector, err)
	}
	if element == nil {
		return entities.Failed("%s not visible after %s", selector, timeout), nil
	}
	return entities.Succeeded("%s is visible", selector), nil
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumProvider) Close() error {
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			s.logger.Warnf("Failed to quit webdriver: %v", err)
		}
	}
	if s.service != nil {
		return s.service.Stop()
	}
	return nil
}
