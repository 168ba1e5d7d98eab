package cli

import (
	"bdd_automation/application/steps"

	"github.com/spf13/cobra"
)

func newRunCmd(configPath *string) *cobra.Command {
	var (
		format      string
		tags        string
		strict      bool
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run feature files in this process",
		Long: `Run feature files or directories with the built-in step definitions.
Every scenario gets its own browser. Without paths the configured
features directory is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 0 {
				args = []string{a.cfg.Runner.FeaturesDir}
			}
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Runner.Format
			}
			if !cmd.Flags().Changed("tags") {
				tags = a.cfg.Runner.Tags
			}
			if !cmd.Flags().Changed("strict") {
				strict = a.cfg.Runner.Strict
			}

			suite := steps.NewSuite(steps.SuiteOptions{
				Paths:       args,
				Format:      format,
				Tags:        tags,
				Strict:      strict,
				Concurrency: concurrency,
				Output:      cmd.OutOrStdout(),
				Context:     cmd.Context(),
			}, a.stepDependencies())
			if status := suite.Run(); status != 0 {
				return &exitError{code: status}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "godog formatter: pretty, progress, cucumber, junit")
	cmd.Flags().StringVar(&tags, "tags", "", "tag expression, e.g. \"@smoke && ~@wip\"")
	cmd.Flags().BoolVar(&strict, "strict", true, "fail on undefined or pending steps")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "scenarios run concurrently, each with its own browser")
	return cmd
}
