// Package cli is the bdd command line: it runs features in-process, serves the MCP
// tool servers and executes feature sets through the runner.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitError carries a process exit code without printing anything more
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// NewRootCommand - the bdd command tree
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "bdd",
		Short: "Run Gherkin features against a real browser",
		Long: `bdd executes Gherkin feature files against Playwright or Selenium driven
browsers, and exposes the browser, git, feature parsing and test runner
capabilities as MCP tool servers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML); BDD_* environment variables override it")

	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newToolsCmd(&configPath))
	root.AddCommand(newExecCmd(&configPath))
	return root
}

// Execute - runs the root command and exits non-zero on failure
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
