package interaction

import (
	"bdd_automation/domain/dom"
	"bdd_automation/domain/entities"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockProvider is a testify mock of interfaces.ActionProvider
type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Navigate(ctx context.Context, url string) (entities.ActionResult, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(entities.ActionResult), args.Error(1)
}

func (m *mockProvider) Click(ctx context.Context, selector string, opts entities.ClickOptions) (entities.ActionResult, error) {
	args := m.Called(ctx, selector, opts)
	return args.Get(0).(entities.ActionResult), args.Error(1)
}

func (m *mockProvider) ClickAt(ctx context.Context, x, y float64) (entities.ActionResult, error) {
	args := m.Called(ctx, x, y)
	return args.Get(0).(entities.ActionResult), args.Error(1)
}

func (m *mockProvider) Fill(ctx context.Context, selector string, text string) (entities.ActionResult, error) {
	args := m.Called(ctx, selector, text)
	return args.Get(0).(entities.ActionResult), args.Error(1)
}

func (m *mockProvider) Hover(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	args := m.Called(ctx, selector, timeout)
	return args.Get(0).(entities.ActionResult), args.Error(1)
}

func (m *mockProvider) PressKey(ctx context.Context, key string) (entities.ActionResult, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(entities.ActionResult), args.Error(1)
}

func (m *mockProvider) DispatchEvent(ctx context.Context, selector string, eventType string, props map[string]interface{}) (entities.ActionResult, error) {
	args := m.Called(ctx, selector, eventType, props)
	return args.Get(0).(entities.ActionResult), args.Error(1)
}

func (m *mockProvider) Evaluate(ctx context.Context, script string, arg interface{}) (entities.EvalResult, error) {
	args := m.Called(ctx, script, arg)
	return args.Get(0).(entities.EvalResult), args.Error(1)
}

func (m *mockProvider) QueryElements(ctx context.Context, selector string) (entities.QueryResult, error) {
	args := m.Called(ctx, selector)
	return args.Get(0).(entities.QueryResult), args.Error(1)
}

func (m *mockProvider) InspectDetailed(ctx context.Context, selector string) (entities.InspectResult, error) {
	args := m.Called(ctx, selector)
	return args.Get(0).(entities.InspectResult), args.Error(1)
}

func (m *mockProvider) Screenshot(ctx context.Context, name string) (entities.ScreenshotResult, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(entities.ScreenshotResult), args.Error(1)
}

func (m *mockProvider) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	args := m.Called(ctx, selector, timeout)
	return args.Get(0).(entities.ActionResult), args.Error(1)
}

func (m *mockProvider) Close() error {
	return m.Called().Error(0)
}

// standardClick and forceClick match the ClickOptions of the respective strategies
var (
	standardClick = mock.MatchedBy(func(o entities.ClickOptions) bool { return !o.Force })
	forceClick    = mock.MatchedBy(func(o entities.ClickOptions) bool { return o.Force })
)

// fastSettings keeps round delays and waits short
func fastSettings() Settings {
	s := DefaultSettings()
	s.RoundDelay = time.Millisecond
	s.PollInterval = 5 * time.Millisecond
	s.DropdownOpenTimeout = 200 * time.Millisecond
	s.DropdownCloseTimeout = 100 * time.Millisecond
	return s
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestSession(t *testing.T, provider *mockProvider, settings Settings) *Session {
	t.Helper()
	s, err := NewSession(provider, quietLogger(), settings)
	require.NoError(t, err)
	return s
}

// descriptor builds a raw provider descriptor
func descriptor(tag string, x, y, w, h float64, inLayout bool) *entities.ElementDescriptor {
	return &entities.ElementDescriptor{
		Tag:         tag,
		Attributes:  map[string]string{},
		BoundingBox: entities.BoundingBox{X: x, Y: y, Width: w, Height: h},
		Style:       entities.ComputedStyle{Display: "block", Visibility: "visible", Opacity: "1", ZIndex: "auto"},
		InLayout:    inLayout,
	}
}

// fakePage is a scripted page implementing the provider interface for dropdown and
// positioning scenarios
type fakePage struct {
	mu sync.Mutex

	elements map[string]*entities.ElementDescriptor

	triggerFound bool
	// scans is replayed in order; the last entry repeats
	scans     [][]scannedContainer
	scanCount int
	// closed marks containers that disappear once an option inside receives a click event
	closeOnClick bool
	closed       map[string]bool

	dispatched []string
	clickedAt  [][2]float64
	clickAtErr error
}

func newFakePage() *fakePage {
	return &fakePage{
		elements:     map[string]*entities.ElementDescriptor{},
		triggerFound: true,
		closeOnClick: true,
		closed:       map[string]bool{},
	}
}

func (f *fakePage) Navigate(ctx context.Context, url string) (entities.ActionResult, error) {
	return entities.Succeeded("navigated"), nil
}

func (f *fakePage) Click(ctx context.Context, selector string, opts entities.ClickOptions) (entities.ActionResult, error) {
	return entities.Failed("not supported"), nil
}

func (f *fakePage) ClickAt(ctx context.Context, x, y float64) (entities.ActionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clickAtErr != nil {
		return entities.ActionResult{}, f.clickAtErr
	}
	f.clickedAt = append(f.clickedAt, [2]float64{x, y})
	return entities.Succeeded("clicked"), nil
}

func (f *fakePage) Fill(ctx context.Context, selector string, text string) (entities.ActionResult, error) {
	return entities.Succeeded("filled"), nil
}

func (f *fakePage) Hover(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	return entities.Succeeded("hovered"), nil
}

func (f *fakePage) PressKey(ctx context.Context, key string) (entities.ActionResult, error) {
	return entities.Succeeded("pressed"), nil
}

func (f *fakePage) DispatchEvent(ctx context.Context, selector string, eventType string, props map[string]interface{}) (entities.ActionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, selector+" "+eventType)
	if eventType == "click" && f.closeOnClick {
		for _, c := range f.currentScan() {
			for _, o := range c.Options {
				if scanSelector(o.Tag) == selector {
					f.closed[scanSelector(c.Tag)] = true
				}
			}
		}
	}
	return entities.Succeeded("dispatched " + eventType), nil
}

func (f *fakePage) currentScan() []scannedContainer {
	if len(f.scans) == 0 {
		return nil
	}
	idx := f.scanCount
	if idx >= len(f.scans) {
		idx = len(f.scans) - 1
	}
	return f.scans[idx]
}

func (f *fakePage) Evaluate(ctx context.Context, script string, arg interface{}) (entities.EvalResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch script {
	case dom.LocateDropdownTrigger:
		return entities.EvalResult{ActionResult: entities.Succeeded("ok"), Value: map[string]interface{}{"found": f.triggerFound}}, nil
	case dom.ScanDropdowns:
		scan := f.currentScan()
		if f.scanCount < len(f.scans)-1 {
			f.scanCount++
		}
		return entities.EvalResult{ActionResult: entities.Succeeded("ok"), Value: scan}, nil
	}
	return entities.EvalResult{ActionResult: entities.Failed("unexpected script")}, nil
}

func (f *fakePage) QueryElements(ctx context.Context, selector string) (entities.QueryResult, error) {
	return entities.QueryResult{ActionResult: entities.Succeeded("ok")}, nil
}

func (f *fakePage) InspectDetailed(ctx context.Context, selector string) (entities.InspectResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed[selector] {
		return entities.InspectResult{ActionResult: entities.Succeeded("ok")}, nil
	}
	if el, ok := f.elements[selector]; ok {
		copied := *el
		return entities.InspectResult{ActionResult: entities.Succeeded("ok"), Found: true, Element: &copied}, nil
	}
	for _, c := range f.currentScan() {
		if scanSelector(c.Tag) == selector {
			el := c.Element
			return entities.InspectResult{ActionResult: entities.Succeeded("ok"), Found: true, Element: &el}, nil
		}
	}
	return entities.InspectResult{ActionResult: entities.Succeeded("ok")}, nil
}

func (f *fakePage) Screenshot(ctx context.Context, name string) (entities.ScreenshotResult, error) {
	return entities.ScreenshotResult{ActionResult: entities.Succeeded("ok"), Path: name}, nil
}

func (f *fakePage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	return entities.Succeeded("visible"), nil
}

func (f *fakePage) Close() error { return nil }

func (f *fakePage) dispatchedTo(selector string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var types []string
	for _, d := range f.dispatched {
		if strings.HasPrefix(d, selector+" ") {
			types = append(types, strings.TrimPrefix(d, selector+" "))
		}
	}
	return types
}

// option builds a scanned option; visible options get a real box
func option(tag, text, role string, visible, disabled bool) scannedOption {
	w := 100.0
	if !visible {
		w = 0
	}
	return scannedOption{
		Tag:      tag,
		Text:     text,
		Role:     role,
		Disabled: disabled,
		Element:  *descriptor("li", 0, 0, w, 20, true),
	}
}

// container builds a scanned container with the given z-index
func container(tag string, index int, zIndex string, options ...scannedOption) scannedContainer {
	el := *descriptor("span", 0, 0, 200, 300, true)
	el.Style.ZIndex = zIndex
	return scannedContainer{Tag: tag, Index: index, Element: el, Options: options}
}
