// Package commands implements the CLI commands for texbox.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/texbox/internal/app"
	"go.trai.ch/texbox/internal/build"
)

// CLI represents the command line interface for texbox.
type CLI struct {
	app     Application
	logs    LogConfigurer
	rootCmd *cobra.Command

	configPath string
	jsonLogs   bool
	quiet      bool
	debug      bool
	verbose    bool
	outputMode string
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, names []string, opts app.BuildOptions) error
	Compile(ctx context.Context, opts app.CompileOptions) error
	Watch(ctx context.Context, names []string, opts app.BuildOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// LogConfigurer is implemented by loggers whose format and level can be
// changed from the command line.
type LogConfigurer interface {
	SetJSON(enable bool)
	SetQuiet(quiet bool)
	SetDebug(debug bool)
}

// Option configures the CLI.
type Option func(*CLI)

// WithLogConfigurer applies --json, --quiet and --debug to l.
func WithLogConfigurer(l LogConfigurer) Option {
	return func(c *CLI) {
		c.logs = l
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "texbox",
		Short:         "Isolated, reproducible LaTeX builds",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Path to texbox.yaml or a directory to search from")
	flags.BoolVar(&c.jsonLogs, "json", false, "Emit logs as JSON")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "Only log warnings and errors")
	flags.BoolVar(&c.debug, "debug", false, "Log debug messages, including raw compiler output")
	flags.BoolVar(&c.verbose, "verbose", false, "Stream compiler output prefixed by document")
	flags.StringVar(&c.outputMode, "output", "auto", "Output mode: auto, interactive, ci, or plain")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		c.configureLogs()
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configureLogs() {
	if c.logs == nil {
		return
	}
	c.logs.SetJSON(c.jsonLogs)
	switch {
	case c.debug:
		c.logs.SetDebug(true)
	case c.quiet:
		c.logs.SetQuiet(true)
	}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
