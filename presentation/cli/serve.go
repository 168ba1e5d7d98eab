package cli

import (
	"bdd_automation/presentation/mcpserver"

	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "serve <server>",
		Short:     "Serve an MCP tool server over stdio",
		Long:      "Serve one of the MCP tool servers (browser, git, gherkin, runner) over stdin/stdout.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: mcpserver.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			deps, err := a.serverDependencies()
			if err != nil {
				return err
			}
			if args[0] == mcpserver.ServerBrowser {
				bs := mcpserver.NewBrowserServer(deps.Factory, deps.Settings, deps.Logger)
				defer bs.Close()
				a.logger.Info("Serving browser tools on stdio")
				return mcpserver.ServeStdio(bs.MCPServer())
			}
			srv, err := mcpserver.New(args[0], deps)
			if err != nil {
				return err
			}
			a.logger.Infof("Serving %s tools on stdio", args[0])
			return mcpserver.ServeStdio(srv)
		},
	}
}
