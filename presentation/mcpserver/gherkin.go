package mcpserver

import (
	"bdd_automation/infrastructure/gherkin"
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GherkinServer parses feature files and reports step coverage
type GherkinServer struct {
	featuresDir string
	patterns    []string
	srv         *server.MCPServer
}

// NewGherkinServer - patterns are the registered step expressions used for coverage
func NewGherkinServer(featuresDir string, patterns []string) *GherkinServer {
	if featuresDir == "" {
		featuresDir = "features"
	}
	g := &GherkinServer{featuresDir: featuresDir, patterns: patterns, srv: newMCPServer(ServerGherkin)}

	g.srv.AddTool(mcp.NewTool("gherkin_parse",
		mcp.WithDescription("Parse one feature file into its scenarios and steps"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the .feature file")),
	), g.handleParse)
	g.srv.AddTool(mcp.NewTool("gherkin_list_features",
		mcp.WithDescription("Parse every feature file under a directory"),
		mcp.WithString("dir", mcp.Description("Directory to scan, defaults to the configured features directory")),
	), g.handleList)
	g.srv.AddTool(mcp.NewTool("gherkin_step_coverage",
		mcp.WithDescription("Match every step under a directory against the registered step expressions"),
		mcp.WithString("dir", mcp.Description("Directory to scan, defaults to the configured features directory")),
	), g.handleCoverage)
	return g
}

// MCPServer - the underlying MCP server
func (g *GherkinServer) MCPServer() *server.MCPServer {
	return g.srv
}

func (g *GherkinServer) handleParse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return toolError("path argument is required")
	}
	feature, err := gherkin.ParseFile(path)
	if err != nil {
		return toolError("%v", err)
	}
	return jsonResult(feature)
}

func (g *GherkinServer) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	features, err := gherkin.ListFeatures(req.GetString("dir", g.featuresDir))
	if err != nil {
		return toolError("%v", err)
	}
	return jsonResult(features)
}

func (g *GherkinServer) handleCoverage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	features, err := gherkin.ListFeatures(req.GetString("dir", g.featuresDir))
	if err != nil {
		return toolError("%v", err)
	}
	coverage, err := gherkin.Coverage(features, g.patterns)
	if err != nil {
		return toolError("%v", err)
	}
	return jsonResult(coverage)
}
