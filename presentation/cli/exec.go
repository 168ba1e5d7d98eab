package cli

import (
	"bdd_automation/domain/entities"
	"bdd_automation/infrastructure/gherkin"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExecCmd(configPath *string) *cobra.Command {
	var (
		tags     string
		parallel int
		output   string
	)
	cmd := &cobra.Command{
		Use:   "exec [features...]",
		Short: "Run features in separate processes and print the summary",
		Long: `Run every feature file in its own process, at most --parallel at a time,
then print and store the combined summary. Without arguments all features
under the configured features directory are run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("--output must be json or yaml, got %q", output)
			}
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 0 {
				features, err := gherkin.ListFeatures(a.cfg.Runner.FeaturesDir)
				if err != nil {
					return err
				}
				for _, f := range features {
					args = append(args, f.Path)
				}
			}
			if !cmd.Flags().Changed("tags") {
				tags = a.cfg.Runner.Tags
			}

			store, err := a.store()
			if err != nil {
				return err
			}
			summary, err := a.runner(store).Run(cmd.Context(), entities.RunRequest{
				Features: args,
				Tags:     tags,
				Parallel: parallel,
			})
			if err != nil {
				return err
			}
			if err := renderSummary(cmd.OutOrStdout(), summary, output); err != nil {
				return err
			}
			if !summary.Passed() {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tags, "tags", "", "tag expression passed to every feature process")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent feature processes (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "summary format: json or yaml")
	return cmd
}

// renderSummary - writes the summary as JSON or YAML
func renderSummary(w io.Writer, summary entities.RunSummary, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
