package cli

import (
	"context"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/vk/stockflow/internal/app"
	"github.com/vk/stockflow/internal/render"
	"github.com/vk/stockflow/internal/style"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	logLevel  string
	logFormat string
	color     string
}

// runOptions are the flags of commands that simulate models.
type runOptions struct {
	rounds    int
	format    string
	separator string
	pad       bool
	workers   int
}

func (o *runOptions) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&o.rounds, "rounds", "n", 0, "Number of rounds to run. Defaults to the model's 'rounds', or 10.")
	f.StringVarP(&o.format, "format", "f", string(render.FormatText), "Output format. Options: 'text', 'csv', 'html', 'table'.")
	f.StringVar(&o.separator, "separator", "\t", "Column separator for text output.")
	f.BoolVar(&o.pad, "pad", true, "Pad text values to the width of their column name.")
	f.IntVarP(&o.workers, "workers", "w", runtime.NumCPU(), "Number of models simulated concurrently.")
}

// Execute runs the command line. Every failure is returned as an *ExitError.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		// Errors from command bodies are already classified; anything else
		// comes from cobra's own parsing.
		return usageError(err)
	}
	return nil
}

// NewRootCommand builds the stockflow command tree.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:   "stockflow",
		Short: "Simulate stock-and-flow models in discrete rounds",
		Long: `stockflow simulates stock-and-flow models: named stocks holding quantities,
connected by flows that move quantity between them once per round.

Models are written in HCL (.hcl) or TOML (.toml). Flows are plain rates,
conversions or leaks, and their amounts are formulas over other stocks.

Examples:
  stockflow demo                          # Run the built-in hiring funnel
  stockflow run models/ --format table    # Run every model in a directory
  stockflow run funnel.hcl -n 20 -f csv   # Override the round count
  stockflow validate funnel.hcl           # Check a model without running it
  stockflow tokens '"Phone Screen" * 0.5' # Show how a formula tokenizes`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&g.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&g.color, "color", string(style.ColorAuto), "Colour table output. Options: 'auto', 'always', 'never'.")

	root.AddCommand(
		newRunCommand(g),
		newValidateCommand(g),
		newDemoCommand(g),
		newConvertCommand(g),
		newTokensCommand(),
	)
	return root
}

// usageArgs classifies argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// newApp validates the flags into an app.Config and creates the App.
func newApp(cmd *cobra.Command, g *globalOptions, o *runOptions, paths []string) (*app.App, error) {
	cfg := app.Config{
		ModelPaths: paths,
		Color:      style.ColorMode(g.color),
		LogFormat:  g.logFormat,
		LogLevel:   g.logLevel,
	}
	if o != nil {
		if cmd.Flags().Changed("rounds") {
			cfg.Rounds = &o.rounds
		}
		cfg.Format = render.Format(o.format)
		cfg.Separator = o.separator
		cfg.Pad = o.pad
		cfg.WorkerCount = o.workers
	}

	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	a := app.NewApp(cmd.OutOrStdout(), cmd.ErrOrStderr(), appConfig)
	a.Logger().Debug("CLI parser finished successfully.", "command", cmd.Name(), "config", appConfig)
	return a, nil
}
