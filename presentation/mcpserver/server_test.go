package mcpserver

import (
	"bdd_automation/application/interaction"
	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider succeeds for "#present" and fails for everything else
type stubProvider struct {
	mu     sync.Mutex
	closed bool
	calls  []string
}

func (p *stubProvider) record(call string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

func (p *stubProvider) result(selector string) entities.ActionResult {
	if selector == "#present" {
		return entities.Succeeded("ok")
	}
	return entities.Failed("no element matches %s", selector)
}

func (p *stubProvider) Navigate(ctx context.Context, url string) (entities.ActionResult, error) {
	p.record("navigate " + url)
	return entities.Succeeded("navigated to %s", url), nil
}

func (p *stubProvider) Click(ctx context.Context, selector string, opts entities.ClickOptions) (entities.ActionResult, error) {
	p.record("click " + selector)
	return p.result(selector), nil
}

func (p *stubProvider) ClickAt(ctx context.Context, x, y float64) (entities.ActionResult, error) {
	p.record("click-at")
	return entities.Succeeded("clicked"), nil
}

func (p *stubProvider) Fill(ctx context.Context, selector, text string) (entities.ActionResult, error) {
	p.record("fill " + selector + " " + text)
	return p.result(selector), nil
}

func (p *stubProvider) Hover(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	return p.result(selector), nil
}

func (p *stubProvider) PressKey(ctx context.Context, key string) (entities.ActionResult, error) {
	return entities.Succeeded("pressed %s", key), nil
}

func (p *stubProvider) DispatchEvent(ctx context.Context, selector, eventType string, props map[string]interface{}) (entities.ActionResult, error) {
	return p.result(selector), nil
}

func (p *stubProvider) Evaluate(ctx context.Context, script string, arg interface{}) (entities.EvalResult, error) {
	return entities.EvalResult{ActionResult: entities.Succeeded("evaluated"), Value: arg}, nil
}

func (p *stubProvider) QueryElements(ctx context.Context, selector string) (entities.QueryResult, error) {
	return entities.QueryResult{
		ActionResult: entities.Succeeded("1 element"),
		Elements:     []entities.ElementSummary{{Text: "Pay", Visible: true}},
	}, nil
}

func (p *stubProvider) InspectDetailed(ctx context.Context, selector string) (entities.InspectResult, error) {
	if selector != "#present" {
		return entities.InspectResult{ActionResult: entities.Succeeded("none")}, nil
	}
	return entities.InspectResult{ActionResult: entities.Succeeded("found"), Found: true, Element: &entities.ElementDescriptor{
		Tag:         "button",
		TextContent: "Pay",
		BoundingBox: entities.BoundingBox{X: 10, Y: 10, Width: 80, Height: 30},
		Style:       entities.ComputedStyle{Visibility: "visible", Opacity: "1"},
		InLayout:    true,
	}}, nil
}

func (p *stubProvider) Screenshot(ctx context.Context, name string) (entities.ScreenshotResult, error) {
	return entities.ScreenshotResult{ActionResult: entities.Succeeded("saved"), Path: name + ".png"}, nil
}

func (p *stubProvider) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (entities.ActionResult, error) {
	return p.result(selector), nil
}

func (p *stubProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func connect(t *testing.T, srv *server.MCPServer) *client.Client {
	t.Helper()
	c, err := Connect(context.Background(), srv)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func call(t *testing.T, c *client.Client, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return tc.Text
}

func decode(t *testing.T, res *mcp.CallToolResult, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), out))
}

func toolNames(t *testing.T, c *client.Client) []string {
	t.Helper()
	list, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)
	names := make([]string, 0, len(list.Tools))
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	return names
}

func TestNew_KnownServers(t *testing.T) {
	for _, name := range Names() {
		srv, err := New(name, Dependencies{})
		require.NoError(t, err, name)
		assert.NotNil(t, srv)
	}
	_, err := New("ftp", Dependencies{})
	assert.Error(t, err)
}

func TestBrowserServer_ListsTools(t *testing.T) {
	c := connect(t, NewBrowserServer(nil, interaction.Settings{}, nil).MCPServer())
	assert.ElementsMatch(t, []string{
		"browser_launch", "browser_close", "browser_navigate", "browser_click", "browser_fill",
		"browser_hover", "browser_press_key", "browser_inspect", "browser_query", "browser_select_option",
		"browser_relative_click", "browser_wait_for", "browser_evaluate", "browser_screenshot",
	}, toolNames(t, c))
}

func TestBrowserServer_RequiresLaunch(t *testing.T) {
	c := connect(t, NewBrowserServer(nil, interaction.Settings{}, nil).MCPServer())

	res := call(t, c, "browser_click", map[string]interface{}{"selector": "#present"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "browser not initialized")

	res = call(t, c, "browser_close", nil)
	assert.True(t, res.IsError)
}

func TestBrowserServer_Session(t *testing.T) {
	var providers []*stubProvider
	factory := interfaces.ProviderFactoryFunc(func(ctx context.Context) (interfaces.ActionProvider, error) {
		p := &stubProvider{}
		providers = append(providers, p)
		return p, nil
	})
	settings := interaction.Settings{MaxAttempts: 1, RoundDelay: time.Millisecond, PollInterval: time.Millisecond}
	bs := NewBrowserServer(factory, settings, nil)
	c := connect(t, bs.MCPServer())

	res := call(t, c, "browser_launch", nil)
	require.False(t, res.IsError, text(t, res))
	require.Len(t, providers, 1)

	res = call(t, c, "browser_navigate", map[string]interface{}{"url": "https://shop.test"})
	assert.False(t, res.IsError)

	var clicked entities.AttemptResult
	res = call(t, c, "browser_click", map[string]interface{}{"selector": "#present"})
	require.False(t, res.IsError, text(t, res))
	decode(t, res, &clicked)
	assert.True(t, clicked.Success)
	assert.Equal(t, string(entities.StrategyStandard), clicked.StrategyUsed)

	var missed entities.AttemptResult
	res = call(t, c, "browser_click", map[string]interface{}{"selector": "#missing"})
	assert.True(t, res.IsError)
	decode(t, res, &missed)
	assert.Equal(t, string(entities.StrategyNone), missed.StrategyUsed)

	var inspected interaction.InspectOutcome
	res = call(t, c, "browser_inspect", map[string]interface{}{"selector": "#present"})
	require.False(t, res.IsError)
	decode(t, res, &inspected)
	assert.True(t, inspected.Found)
	assert.True(t, inspected.Element.IsVisible)

	res = call(t, c, "browser_relative_click", map[string]interface{}{"reference": "#missing", "offset_x": 5})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "no click attempted")

	res = call(t, c, "browser_select_option", map[string]interface{}{"label": "Country"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "index")

	res = call(t, c, "browser_evaluate", map[string]interface{}{"script": "rm -rf"})
	assert.True(t, res.IsError)

	// launching again replaces the running browser
	res = call(t, c, "browser_launch", nil)
	require.False(t, res.IsError)
	require.Len(t, providers, 2)
	assert.True(t, providers[0].closed)

	res = call(t, c, "browser_close", nil)
	assert.False(t, res.IsError)
	assert.True(t, providers[1].closed)
	assert.Equal(t, []string{"navigate https://shop.test", "click #present"}, providers[0].calls[:2])
}

func TestRunnerServer_Summarize(t *testing.T) {
	c := connect(t, NewRunnerServer(nil, nil, "").MCPServer())

	report := `[{"name":"Login","elements":[{"name":"sign in","type":"scenario","steps":[
		{"keyword":"Given ","name":"I navigate to \"/login\"","line":3,"result":{"status":"passed"}},
		{"keyword":"Then ","name":"I should see \"#home\"","line":4,"result":{"status":"failed","error_message":"#home is not visible"}}]}]}]`
	var summary entities.RunSummary
	res := call(t, c, "test_summarize", map[string]interface{}{"report": report})
	require.False(t, res.IsError, text(t, res))
	decode(t, res, &summary)
	assert.Equal(t, 1, summary.Scenarios.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "#home is not visible", summary.Failures[0].Error)

	res = call(t, c, "test_get_results", nil)
	assert.True(t, res.IsError)

	res = call(t, c, "test_run", map[string]interface{}{"features": []interface{}{"a.feature"}})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "not configured")
}
