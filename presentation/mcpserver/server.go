// Package mcpserver exposes the browser core, git inspection, feature parsing and the
// test runner as MCP tool servers.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server names accepted by New
const (
	ServerBrowser = "browser"
	ServerGit     = "git"
	ServerGherkin = "gherkin"
	ServerRunner  = "runner"
)

const version = "1.0.0"

// Names - all known servers, sorted
func Names() []string {
	names := []string{ServerBrowser, ServerGit, ServerGherkin, ServerRunner}
	sort.Strings(names)
	return names
}

// New - builds the named server from deps
func New(name string, deps Dependencies) (*server.MCPServer, error) {
	switch name {
	case ServerBrowser:
		return NewBrowserServer(deps.Factory, deps.Settings, deps.Logger).MCPServer(), nil
	case ServerGit:
		return NewGitServer(deps.RepoPath, deps.LogLimit).MCPServer(), nil
	case ServerGherkin:
		return NewGherkinServer(deps.FeaturesDir, deps.Patterns).MCPServer(), nil
	case ServerRunner:
		return NewRunnerServer(deps.Runner, deps.Store, deps.FeaturesDir).MCPServer(), nil
	default:
		return nil, fmt.Errorf("unknown server %q, expected one of %v", name, Names())
	}
}

func newMCPServer(name string) *server.MCPServer {
	return server.NewMCPServer(
		"bdd-"+name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
}

// ServeStdio - serves srv over stdin/stdout until the client disconnects
func ServeStdio(srv *server.MCPServer) error {
	return server.ServeStdio(srv)
}

// Connect - returns an initialized client talking to srv inside this process
func Connect(ctx context.Context, srv *server.MCPServer) (*client.Client, error) {
	c, err := client.NewInProcessClient(srv)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-process client: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to start in-process client: %w", err)
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "bdd", Version: version}
	if _, err := c.Initialize(ctx, req); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize in-process client: %w", err)
	}
	return c, nil
}

// jsonResult - marshals v as indented JSON text
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError - reports a failure to the caller as a tool result
func toolError(format string, args ...interface{}) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf(format, args...)), nil
}
