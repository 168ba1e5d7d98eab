package mcpserver

import (
	"bdd_automation/infrastructure/git"
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GitServer inspects the repository holding the feature files
type GitServer struct {
	repoPath string
	logLimit int
	srv      *server.MCPServer
}

// NewGitServer - the repository is opened on every call so the answers follow the working tree
func NewGitServer(repoPath string, logLimit int) *GitServer {
	if repoPath == "" {
		repoPath = "."
	}
	if logLimit <= 0 {
		logLimit = 20
	}
	g := &GitServer{repoPath: repoPath, logLimit: logLimit, srv: newMCPServer(ServerGit)}

	g.srv.AddTool(mcp.NewTool("git_status",
		mcp.WithDescription("Branch, head and per-file staging/worktree status"),
	), g.handleStatus)
	g.srv.AddTool(mcp.NewTool("git_log",
		mcp.WithDescription("Recent commits with the files they touched"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of commits")),
	), g.handleLog)
	g.srv.AddTool(mcp.NewTool("git_changed_features",
		mcp.WithDescription("Feature files added or modified in the working tree"),
	), g.handleChangedFeatures)
	g.srv.AddTool(mcp.NewTool("git_branch",
		mcp.WithDescription("Current branch name"),
	), g.handleBranch)
	return g
}

// MCPServer - the underlying MCP server
func (g *GitServer) MCPServer() *server.MCPServer {
	return g.srv
}

func (g *GitServer) open() (*git.Inspector, *mcp.CallToolResult) {
	inspector, err := git.Open(g.repoPath)
	if err != nil {
		res, _ := toolError("Failed to open repository: %v", err)
		return nil, res
	}
	return inspector, nil
}

func (g *GitServer) handleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inspector, fail := g.open()
	if fail != nil {
		return fail, nil
	}
	status, err := inspector.Status()
	if err != nil {
		return toolError("Failed to read status: %v", err)
	}
	return jsonResult(status)
}

func (g *GitServer) handleLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inspector, fail := g.open()
	if fail != nil {
		return fail, nil
	}
	commits, err := inspector.Log(req.GetInt("limit", g.logLimit))
	if err != nil {
		return toolError("Failed to read log: %v", err)
	}
	return jsonResult(commits)
}

func (g *GitServer) handleChangedFeatures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inspector, fail := g.open()
	if fail != nil {
		return fail, nil
	}
	paths, err := inspector.ChangedFeatures()
	if err != nil {
		return toolError("Failed to read status: %v", err)
	}
	if paths == nil {
		paths = []string{}
	}
	return jsonResult(paths)
}

func (g *GitServer) handleBranch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inspector, fail := g.open()
	if fail != nil {
		return fail, nil
	}
	branch, err := inspector.Branch()
	if err != nil {
		return toolError("Failed to read branch: %v", err)
	}
	return mcp.NewToolResultText(branch), nil
}
