package mcpserver

import (
	"bdd_automation/application/runner"
	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
	"bdd_automation/infrastructure/gherkin"
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RunnerServer executes features and reports their summaries
type RunnerServer struct {
	runner      *runner.Runner
	store       interfaces.RunStore
	featuresDir string
	srv         *server.MCPServer
}

// NewRunnerServer - store may be nil, in which case test_get_results reports that nothing was stored
func NewRunnerServer(r *runner.Runner, store interfaces.RunStore, featuresDir string) *RunnerServer {
	if featuresDir == "" {
		featuresDir = "features"
	}
	rs := &RunnerServer{runner: r, store: store, featuresDir: featuresDir, srv: newMCPServer(ServerRunner)}

	rs.srv.AddTool(mcp.NewTool("test_run",
		mcp.WithDescription("Run feature files, each in its own process and browser, and summarize the results"),
		mcp.WithArray("features", mcp.Description("Feature file paths; all features under the features directory when empty"),
			mcp.Items(map[string]interface{}{"type": "string"})),
		mcp.WithString("tags", mcp.Description("Tag expression such as @smoke && ~@wip")),
		mcp.WithNumber("parallel", mcp.Description("Maximum number of concurrent feature processes")),
	), rs.handleRun)
	rs.srv.AddTool(mcp.NewTool("test_get_results",
		mcp.WithDescription("Summary of the last stored test run"),
	), rs.handleResults)
	rs.srv.AddTool(mcp.NewTool("test_summarize",
		mcp.WithDescription("Summarize a cucumber JSON report"),
		mcp.WithString("report", mcp.Required(), mcp.Description("Cucumber JSON report text")),
	), rs.handleSummarize)
	return rs
}

// MCPServer - the underlying MCP server
func (rs *RunnerServer) MCPServer() *server.MCPServer {
	return rs.srv
}

func (rs *RunnerServer) handleRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if rs.runner == nil {
		return toolError("test runner not configured")
	}
	paths := req.GetStringSlice("features", nil)
	if len(paths) == 0 {
		features, err := gherkin.ListFeatures(rs.featuresDir)
		if err != nil {
			return toolError("%v", err)
		}
		for _, f := range features {
			paths = append(paths, f.Path)
		}
	}
	summary, err := rs.runner.Run(ctx, entities.RunRequest{
		Features: paths,
		Tags:     req.GetString("tags", ""),
		Parallel: req.GetInt("parallel", 0),
	})
	if err != nil {
		return toolError("Test run failed: %v", err)
	}
	return jsonResult(summary)
}

func (rs *RunnerServer) handleResults(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if rs.store == nil {
		return toolError("no test results stored")
	}
	summary, ok, err := rs.store.LastSummary()
	if err != nil {
		return toolError("Failed to load results: %v", err)
	}
	if !ok {
		return toolError("no test results stored")
	}
	return jsonResult(summary)
}

func (rs *RunnerServer) handleSummarize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := req.RequireString("report")
	if err != nil {
		return toolError("report argument is required")
	}
	features, err := runner.ParseCucumber(strings.NewReader(report))
	if err != nil {
		return toolError("%v", err)
	}
	return jsonResult(runner.Summarize(features))
}
