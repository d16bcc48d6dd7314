package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-interface/errors"
	"github.com/wippyai/wasm-interface/inspect"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wasm-interface <path-to-wasm-module>",
		Short: "Print the imports and exports of a WebAssembly module",
		Args:  exactlyOneModule,
		// Every token is positional; a path may start with '-'.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			insp := inspect.New(inspect.DefaultOptions())
			return insp.Run(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func exactlyOneModule(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.Usage("expected exactly 1 argument (a path to a WebAssembly module), but got %d", len(args))
	}
	return nil
}

// execute runs the command and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	printError(stderr, err)
	return exitCode(err)
}
