package cli

import (
	"bdd_automation/presentation/mcpserver"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

func newToolsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "tools <server>",
		Short:     "List the tools of an MCP server",
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
			srv, err := mcpserver.New(args[0], deps)
			if err != nil {
				return err
			}
			c, err := mcpserver.Connect(cmd.Context(), srv)
			if err != nil {
				return err
			}
			defer c.Close()

			list, err := c.ListTools(cmd.Context(), mcp.ListToolsRequest{})
			if err != nil {
				return fmt.Errorf("failed to list tools: %w", err)
			}
			return printTools(cmd.OutOrStdout(), list.Tools)
		},
	}
}

func printTools(w io.Writer, tools []mcp.Tool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION")
	for _, tool := range tools {
		fmt.Fprintf(tw, "%s\t%s\n", tool.Name, tool.Description)
	}
	return tw.Flush()
}
