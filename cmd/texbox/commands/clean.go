package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/texbox/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build info store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputs, _ := cmd.Flags().GetBool("outputs")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				ConfigPath: c.configPath,
				Outputs:    outputs,
			})
		},
	}

	cmd.Flags().Bool("outputs", false, "Also remove the compiled documents")

	return cmd
}
