package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/texbox/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [documents...]",
		Short: "Build documents declared in texbox.yaml",
		Long:  "Build the named documents, or every document when none is given. Unchanged documents are skipped.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.buildOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Build(cmd.Context(), args, opts)
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [documents...]",
		Short: "Rebuild documents whenever their inputs change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.buildOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), args, opts)
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func addBuildFlags(cmd *cobra.Command) {
	addSetFlag(cmd)
	cmd.Flags().BoolP("no-cache", "n", false, "Compile even when a document is up to date")
	cmd.Flags().IntP("jobs", "j", 0, "Number of documents compiled at once (default: number of CPUs)")
}

func (c *CLI) buildOptions(cmd *cobra.Command) (app.BuildOptions, error) {
	set, err := parseSet(cmd)
	if err != nil {
		return app.BuildOptions{}, err
	}
	noCache, _ := cmd.Flags().GetBool("no-cache")
	jobs, _ := cmd.Flags().GetInt("jobs")

	return app.BuildOptions{
		ConfigPath: c.configPath,
		Set:        set,
		NoCache:    noCache,
		Jobs:       jobs,
		Verbose:    c.verbose,
		OutputMode: c.outputMode,
	}, nil
}
