package mcpserver

import (
	"bdd_automation/application/interaction"
	"bdd_automation/domain/dom"
	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// errNotLaunched is returned by every browser tool until browser_launch succeeds
var errNotLaunched = errors.New("browser not initialized, call browser_launch first")

// scripts callable through browser_evaluate
var evaluableScripts = map[string]string{
	"inspect_element": dom.InspectElement,
	"query_elements":  dom.QueryElements,
	"script_click":    dom.ScriptClick,
	"scan_dropdowns":  dom.ScanDropdowns,
	"locate_dropdown": dom.LocateDropdownTrigger,
	"dispatch_event":  dom.DispatchEvent,
	"click_at_point":  dom.ClickAtPoint,
}

// BrowserServer drives one browser session at a time through the interaction core
type BrowserServer struct {
	factory    interfaces.ProviderFactory
	settings   interaction.Settings
	logger     *logrus.Logger
	interactor *interaction.Interactor

	mu      sync.Mutex
	session *interaction.Session
	srv     *server.MCPServer
}

// NewBrowserServer - creates the browser tool server; no browser starts until browser_launch
func NewBrowserServer(factory interfaces.ProviderFactory, settings interaction.Settings, logger *logrus.Logger) *BrowserServer {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	b := &BrowserServer{
		factory:    factory,
		settings:   settings,
		logger:     logger,
		interactor: interaction.NewInteractor(),
		srv:        newMCPServer(ServerBrowser),
	}
	b.registerTools()
	return b
}

// MCPServer - the underlying MCP server
func (b *BrowserServer) MCPServer() *server.MCPServer {
	return b.srv
}

// Close - closes the live session, if any
func (b *BrowserServer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return nil
	}
	err := b.session.Close()
	b.session = nil
	return err
}

func (b *BrowserServer) registerTools() {
	selector := mcp.WithString("selector", mcp.Required(), mcp.Description("CSS selector of the target element"))

	b.srv.AddTool(mcp.NewTool("browser_launch",
		mcp.WithDescription("Start a fresh browser session, replacing any running one"),
	), b.handleLaunch)

	b.srv.AddTool(mcp.NewTool("browser_close",
		mcp.WithDescription("Close the browser session"),
	), b.handleClose)

	b.srv.AddTool(mcp.NewTool("browser_navigate",
		mcp.WithDescription("Open a URL in the current page"),
		mcp.WithString("url", mcp.Required(), mcp.Description("Absolute URL or path relative to the base URL")),
	), b.withSession(b.handleNavigate))

	b.srv.AddTool(mcp.NewTool("browser_click",
		mcp.WithDescription("Click an element, retrying through all click strategies"),
		selector,
		mcp.WithNumber("max_attempts", mcp.Description("Number of strategy rounds")),
	), b.withSession(b.handleClick))

	b.srv.AddTool(mcp.NewTool("browser_fill",
		mcp.WithDescription("Replace the value of an input"),
		selector,
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to type")),
	), b.withSession(b.handleFill))

	b.srv.AddTool(mcp.NewTool("browser_hover",
		mcp.WithDescription("Move the pointer over an element"),
		selector,
	), b.withSession(b.handleHover))

	b.srv.AddTool(mcp.NewTool("browser_press_key",
		mcp.WithDescription("Press a key on the focused element"),
		mcp.WithString("key", mcp.Required(), mcp.Description("Key name such as Enter, Tab or Escape")),
	), b.withSession(b.handlePressKey))

	b.srv.AddTool(mcp.NewTool("browser_inspect",
		mcp.WithDescription("Describe the first element matching a selector: geometry, computed style and visibility"),
		selector,
	), b.withSession(b.handleInspect))

	b.srv.AddTool(mcp.NewTool("browser_query",
		mcp.WithDescription("List text and visibility of all elements matching a selector"),
		selector,
	), b.withSession(b.handleQuery))

	b.srv.AddTool(mcp.NewTool("browser_select_option",
		mcp.WithDescription("Pick an option from a Select2-style dropdown by 1-based index or by text"),
		mcp.WithString("label", mcp.Description("Label text associated with the dropdown")),
		mcp.WithString("trigger", mcp.Description("Selector of the dropdown trigger, used when label is empty")),
		mcp.WithNumber("index", mcp.Description("1-based index among selectable options")),
		mcp.WithString("text", mcp.Description("Option text; exact match first, then substring")),
	), b.withSession(b.handleSelectOption))

	b.srv.AddTool(mcp.NewTool("browser_relative_click",
		mcp.WithDescription("Click at an offset from a reference element"),
		mcp.WithString("reference", mcp.Required(), mcp.Description("Selector of the reference element")),
		mcp.WithNumber("offset_x", mcp.Description("Horizontal offset in pixels")),
		mcp.WithNumber("offset_y", mcp.Description("Vertical offset in pixels")),
		mcp.WithBoolean("from_center", mcp.Description("Measure the offset from the centre instead of the top-left corner")),
	), b.withSession(b.handleRelativeClick))

	b.srv.AddTool(mcp.NewTool("browser_wait_for",
		mcp.WithDescription("Wait until an element is visible"),
		selector,
		mcp.WithNumber("timeout_ms", mcp.Description("Wait budget in milliseconds"), mcp.DefaultNumber(5000)),
	), b.withSession(b.handleWaitFor))

	b.srv.AddTool(mcp.NewTool("browser_evaluate",
		mcp.WithDescription("Run one of the built-in page scripts with a selector argument"),
		mcp.WithString("script", mcp.Required(), mcp.Description("Script name"),
			mcp.Enum("inspect_element", "query_elements", "script_click", "scan_dropdowns", "locate_dropdown", "dispatch_event", "click_at_point")),
		mcp.WithString("selector", mcp.Description("Selector passed to element scripts")),
		mcp.WithObject("argument", mcp.Description("Argument object for scripts that take one")),
	), b.withSession(b.handleEvaluate))

	b.srv.AddTool(mcp.NewTool("browser_screenshot",
		mcp.WithDescription("Capture the current page"),
		mcp.WithString("name", mcp.Description("File name without extension")),
	), b.withSession(b.handleScreenshot))
}

type sessionHandler func(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// withSession - serializes calls and rejects them until a browser is launched
func (b *BrowserServer) withSession(h sessionHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.session == nil {
			return toolError("%v", errNotLaunched)
		}
		return h(ctx, b.session, req)
	}
}

// outcome - renders a provider or core result. Failed results keep their JSON body so the
// caller still sees the strategy diagnostics.
func outcome(v interface{}, success bool, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return toolError("%v", err)
	}
	res, _ := jsonResult(v)
	res.IsError = !success
	return res, nil
}

func (b *BrowserServer) handleLaunch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.factory == nil {
		return toolError("no browser engine configured")
	}
	if b.session != nil {
		if err := b.session.Close(); err != nil {
			b.logger.Warnf("Failed to close previous browser: %v", err)
		}
		b.session = nil
	}
	provider, err := b.factory.NewProvider(ctx)
	if err != nil {
		return toolError("Failed to launch browser: %v", err)
	}
	session, err := interaction.NewSession(provider, b.logger, b.settings)
	if err != nil {
		provider.Close()
		return toolError("Failed to launch browser: %v", err)
	}
	b.session = session
	return jsonResult(map[string]string{"session": session.ID})
}

func (b *BrowserServer) handleClose(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return toolError("%v", errNotLaunched)
	}
	err := b.session.Close()
	b.session = nil
	if err != nil {
		return toolError("Failed to close browser: %v", err)
	}
	return mcp.NewToolResultText("browser closed"), nil
}

func (b *BrowserServer) handleNavigate(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return toolError("url argument is required")
	}
	res, err := s.Primitives().Navigate(ctx, url)
	return outcome(res, res.Success, err)
}

func (b *BrowserServer) handleClick(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := req.RequireString("selector")
	if err != nil {
		return toolError("selector argument is required")
	}
	opts := interaction.ResolveOptions{MaxAttempts: req.GetInt("max_attempts", 0)}
	res, err := b.interactor.ClickWith(ctx, s, sel, opts)
	return outcome(res, res.Success, err)
}

func (b *BrowserServer) handleFill(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := req.RequireString("selector")
	if err != nil {
		return toolError("selector argument is required")
	}
	text, err := req.RequireString("text")
	if err != nil {
		return toolError("text argument is required")
	}
	res, err := s.Primitives().Fill(ctx, sel, text)
	return outcome(res, res.Success, err)
}

func (b *BrowserServer) handleHover(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := req.RequireString("selector")
	if err != nil {
		return toolError("selector argument is required")
	}
	res, err := s.Primitives().Hover(ctx, sel, 0)
	return outcome(res, res.Success, err)
}

func (b *BrowserServer) handlePressKey(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return toolError("key argument is required")
	}
	res, err := s.Primitives().PressKey(ctx, key)
	return outcome(res, res.Success, err)
}

// handleInspect - a missing element is a normal answer, not a tool error
func (b *BrowserServer) handleInspect(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := req.RequireString("selector")
	if err != nil {
		return toolError("selector argument is required")
	}
	res, err := b.interactor.Inspect(ctx, s, sel)
	if err != nil {
		return toolError("%v", err)
	}
	return jsonResult(res)
}

func (b *BrowserServer) handleQuery(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := req.RequireString("selector")
	if err != nil {
		return toolError("selector argument is required")
	}
	res, err := s.Primitives().Query(ctx, sel)
	return outcome(res, res.Success, err)
}

func (b *BrowserServer) handleSelectOption(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trigger := entities.DropdownTrigger{
		Label:    req.GetString("label", ""),
		Selector: req.GetString("trigger", ""),
	}
	if trigger.Label == "" && trigger.Selector == "" {
		return toolError("label or trigger argument is required")
	}
	target := entities.ByText(req.GetString("text", ""))
	if target.Text == "" {
		index := req.GetInt("index", 0)
		if index < 1 {
			return toolError("text or a 1-based index argument is required")
		}
		target = entities.ByIndex(index)
	}
	res, err := b.interactor.SelectOption(ctx, s, trigger, target)
	return outcome(res, res.Success, err)
}

func (b *BrowserServer) handleRelativeClick(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("reference")
	if err != nil {
		return toolError("reference argument is required")
	}
	res, err := b.interactor.RelativeClick(ctx, s, ref,
		req.GetFloat("offset_x", 0), req.GetFloat("offset_y", 0), req.GetBool("from_center", false))
	return outcome(res, res.Success, err)
}

func (b *BrowserServer) handleWaitFor(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := req.RequireString("selector")
	if err != nil {
		return toolError("selector argument is required")
	}
	timeout := time.Duration(req.GetFloat("timeout_ms", 5000)) * time.Millisecond
	res, err := s.Primitives().WaitForSelector(ctx, sel, timeout)
	return outcome(res, res.Success, err)
}

func (b *BrowserServer) handleEvaluate(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("script")
	if err != nil {
		return toolError("script argument is required")
	}
	script, ok := evaluableScripts[name]
	if !ok {
		return toolError("unknown script %q", name)
	}
	var arg interface{} = req.GetString("selector", "")
	if obj, ok := req.GetArguments()["argument"].(map[string]interface{}); ok {
		arg = obj
	}
	res, err := s.Primitives().Evaluate(ctx, script, arg)
	return outcome(res, res.Success, err)
}

func (b *BrowserServer) handleScreenshot(ctx context.Context, s *interaction.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		name = fmt.Sprintf("screenshot-%s", s.ID[:8])
	}
	res, err := s.Primitives().Screenshot(ctx, name)
	return outcome(res, res.Success, err)
}
