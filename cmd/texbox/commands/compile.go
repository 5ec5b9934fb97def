package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/texbox/internal/app"
	"go.trai.ch/texbox/internal/core/domain"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile ENTRY [PATH...]",
		Short: "Compile a single document without texbox.yaml",
		Long: "Collect PATH... (the entry file by default) into a fresh workspace, substitute the --set " +
			"variables and compile ENTRY. Nothing but the output is written.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := parseSet(cmd)
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			ext, _ := cmd.Flags().GetString("ext")
			terminal, _ := cmd.Flags().GetBool("terminal")
			strict, _ := cmd.Flags().GetBool("strict-encoding")

			return c.app.Compile(cmd.Context(), app.CompileOptions{
				Entry:          args[0],
				Inputs:         args[1:],
				Output:         out,
				Set:            set,
				Command:        commandSpec(cmd),
				OutputExt:      ext,
				Terminal:       terminal,
				StrictEncoding: strict,
				Verbose:        c.verbose,
				OutputMode:     c.outputMode,
			})
		},
	}

	addSetFlag(cmd)
	cmd.Flags().StringP("out", "o", "", "Output file (default: <entry stem><ext> in the working directory)")
	cmd.Flags().String("cmd", "", "Compiler executable (default: "+domain.DefaultCompiler+")")
	cmd.Flags().StringArray("arg", nil, "Compiler argument placed before the entry (repeatable, replaces the defaults)")
	cmd.Flags().String("ext", "", "Extension of the artifact (default: "+domain.DefaultOutputExt+")")
	cmd.Flags().Bool("terminal", false, "Run the compiler attached to a pseudo-terminal")
	cmd.Flags().Bool("strict-encoding", false, "Reject binary inputs that contain placeholders")
	return cmd
}

// commandSpec returns the zero spec unless --cmd or --arg was given.
func commandSpec(cmd *cobra.Command) domain.CommandSpec {
	name, _ := cmd.Flags().GetString("cmd")
	argsChanged := cmd.Flags().Changed("arg")
	if name == "" && !argsChanged {
		return domain.CommandSpec{}
	}

	spec := domain.DefaultCommand()
	if name != "" {
		spec = spec.WithCmd(name)
	}
	if argsChanged {
		args, _ := cmd.Flags().GetStringArray("arg")
		spec = spec.WithArgs(args...)
	}
	return spec
}
