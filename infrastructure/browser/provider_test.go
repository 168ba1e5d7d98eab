package browser

import (
	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
	"bdd_automation/infrastructure/config"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

// compile time interface checks
var (
	_ interfaces.ActionProvider = (*PlaywrightProvider)(nil)
	_ interfaces.ActionProvider = (*SeleniumProvider)(nil)
)

func TestIsTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "playwright target closed", err: fmt.Errorf("click: %w", playwright.ErrTargetClosed), want: true},
		{name: "closed page message", err: errors.New("Target page, context or browser has been closed"), want: true},
		{name: "webdriver session gone", err: errors.New("invalid session id: session deleted because of page crash"), want: true},
		{name: "already classified", err: fmt.Errorf("x: %w", entities.ErrTransport), want: true},
		{name: "actionability timeout", err: errors.New("Timeout 2000ms exceeded. waiting for element to be visible"), want: false},
		{name: "missing element", err: errors.New("no such element: Unable to locate element"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransportError(tt.err))
		})
	}
}

func TestOutcome_SplitsPageAndTransportFailures(t *testing.T) {
	p := &PlaywrightProvider{}

	res, err := p.outcome("click #a", nil)
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = p.outcome("click #a", errors.New("element is not visible"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "element is not visible")

	_, err = p.outcome("click #a", playwright.ErrTargetClosed)
	assert.ErrorIs(t, err, entities.ErrTransport)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "login_page_fails.png", sanitizeName("login page / fails"))
	assert.Equal(t, "step-3.png", sanitizeName("step-3.png"))

	generated := sanitizeName("  ///  ")
	assert.True(t, strings.HasSuffix(generated, ".png"))
	assert.Len(t, generated, 36+len(".png"))
}

func TestScreenshotPath_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots", "nested")
	path, err := screenshotPath(dir, "checkout")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "checkout.png"), path)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInspectResult(t *testing.T) {
	res, err := inspectResult("#a", entities.EvalResult{ActionResult: entities.Succeeded("ok")}, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Found)

	raw := map[string]interface{}{
		"tag":         "button",
		"textContent": "Save",
		"attributes":  map[string]interface{}{"id": "save"},
		"boundingBox": map[string]interface{}{"x": 1, "y": 2, "width": 30, "height": 10},
		"computedStyle": map[string]interface{}{
			"display": "inline-block", "visibility": "visible", "opacity": "1", "zIndex": "auto",
		},
		"inLayout": true,
	}
	res, err = inspectResult("#save", entities.EvalResult{ActionResult: entities.Succeeded("ok"), Value: raw}, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "button", res.Element.Tag)
	assert.Equal(t, "save", res.Element.Attributes["id"])
	assert.Equal(t, 300.0, res.Element.BoundingBox.Area())
	assert.True(t, res.Element.IsVisible)

	_, err = inspectResult("#save", entities.EvalResult{}, fmt.Errorf("evaluate: %w", entities.ErrTransport))
	assert.ErrorIs(t, err, entities.ErrTransport)
}

func TestQueryResult(t *testing.T) {
	value := []interface{}{
		map[string]interface{}{"text": "One", "visible": true},
		map[string]interface{}{"text": "Two", "visible": false},
	}
	res, err := queryResult("li", entities.EvalResult{ActionResult: entities.Succeeded("ok"), Value: value}, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []entities.ElementSummary{{Text: "One", Visible: true}, {Text: "Two", Visible: false}}, res.Elements)

	res, err = queryResult("li", entities.EvalResult{ActionResult: entities.Succeeded("ok"), Value: []interface{}{}}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Elements)
	assert.NotNil(t, res.Elements)
}

func TestKeyCode(t *testing.T) {
	code, ok := keyCode("Enter")
	assert.True(t, ok)
	assert.Equal(t, selenium.EnterKey, code)

	code, ok = keyCode("a")
	assert.True(t, ok)
	assert.Equal(t, "a", code)

	_, ok = keyCode("Hyper")
	assert.False(t, ok)
}

func TestScriptWrapping(t *testing.T) {
	assert.Equal(t, "return ((x) => x)(arguments[0]);", script("(x) => x"))
}

func TestChromeArgs(t *testing.T) {
	args := chromeArgs(config.BrowserConfig{
		Args:              []string{"--no-sandbox"},
		Headless:          true,
		ViewportWidth:     1024,
		ViewportHeight:    768,
		IgnoreHTTPSErrors: true,
	})
	assert.Equal(t, []string{"--no-sandbox", "--headless=new", "--window-size=1024,768", "--ignore-certificate-errors"}, args)
}

func TestFactory_RejectsUnknownEngine(t *testing.T) {
	logger := logrus.New()
	_, err := NewFactory(config.BrowserConfig{Engine: "lynx"}, logger).NewProvider(context.Background())
	assert.ErrorContains(t, err, "unknown browser engine")
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, done := canceled(ctx, "click")
	assert.True(t, done)
	assert.False(t, res.Success)
}
