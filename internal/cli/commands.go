package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/stockflow/internal/examples"
	"github.com/vk/stockflow/internal/formula"
	"github.com/vk/stockflow/internal/token"
)

func newRunCommand(g *globalOptions) *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run PATH...",
		Short: "Run models from files or directories",
		Long: `Run every model defined in the given .hcl or .toml files. Directories are
scanned recursively. Results are printed per model, one row per round, with
round 0 holding the initial values.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g, o, args)
			if err != nil {
				return err
			}
			models, err := a.Load(cmd.Context())
			if err != nil {
				return modelError(err)
			}
			return modelError(a.Run(cmd.Context(), models))
		},
	}
	o.addFlags(cmd)
	return cmd
}

func newValidateCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH...",
		Short: "Check models without running them",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g, nil, args)
			if err != nil {
				return err
			}
			models, err := a.Load(cmd.Context())
			if err != nil {
				return modelError(err)
			}
			return modelError(a.Validate(cmd.Context(), models))
		},
	}
}

func newDemoCommand(g *globalOptions) *cobra.Command {
	o := &runOptions{}
	var list bool
	cmd := &cobra.Command{
		Use:   "demo [EXAMPLE]",
		Short: "Run a built-in example model",
		Long: fmt.Sprintf(`Run one of the example models embedded in the binary. Without an argument
the %s example is run.`, examples.Default),
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				if len(args) > 0 {
					return usageErrorf("--list does not take an example name, got %q", args[0])
				}
				for _, name := range examples.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			name := examples.Default
			if len(args) == 1 {
				name = args[0]
			}

			a, err := newApp(cmd, g, o, nil)
			if err != nil {
				return err
			}
			models, err := a.LoadExample(cmd.Context(), name)
			if err != nil {
				return usageError(err)
			}
			return modelError(a.Run(cmd.Context(), models))
		},
	}
	o.addFlags(cmd)
	cmd.Flags().BoolVar(&list, "list", false, "List the embedded examples instead of running one.")
	return cmd
}

func newConvertCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert PATH...",
		Short: "Print models as HCL",
		Long: `Load models from any supported format and print them as HCL. Models are
built first, so only valid models are converted.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g, nil, args)
			if err != nil {
				return err
			}
			models, err := a.Load(cmd.Context())
			if err != nil {
				return modelError(err)
			}
			return modelError(a.Convert(cmd.Context(), models))
		},
	}
}

func newTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FORMULA...",
		Short: "Show how a formula is tokenized",
		Long: `Print the token stream of a formula, one token per line, followed by the
formula as it reads back. Arguments are joined with spaces. The formula is
validated, so a malformed formula exits with an error after its tokens.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			stream, err := token.Tokenize(strings.Join(args, " "))
			if err != nil {
				return modelError(err)
			}
			for _, tok := range stream {
				fmt.Fprintf(out, "%-9s %s\n", tok.Kind, tok.Text)
			}
			f, err := formula.New(stream)
			if err != nil {
				return modelError(err)
			}
			fmt.Fprintln(out, f)
			return nil
		},
	}
}
