// Package cmd implements the chartctl commands.
//
// The root command dispatches to subcommands (render, convert, watch,
// codes). Every subcommand reads chart documents through pkg/config.
package cmd

import (
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

type rootOptions struct {
	verbose bool
}

// NewRootCommand builds the command tree. Output goes to out, logs and
// errors to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "chartctl",
		Short: "Render and convert chart documents",
		Long: `chartctl renders chart documents to PNG and converts them between
JSON, YAML and XML.

Use "chartctl <command> --help" for more information about a command.`,
		Version:       Version + " (built " + BuildTime + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(errOut, opts.verbose)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log signal dispatches and draw passes")

	root.AddCommand(
		newRenderCommand(),
		newConvertCommand(),
		newWatchCommand(),
		newCodesCommand(),
	)
	return root
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	errors.SetHandler(&errors.LogHandler{Verbose: verbose})
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return execute(NewRootCommand(os.Stdout, os.Stderr))
}

// execute runs root. A panic is reported through the error handler and
// returned as a *errors.PanicError so the process exits non-zero.
func execute(root *cobra.Command) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		perr := &errors.PanicError{Op: "chartctl", Value: r, StackTrace: string(debug.Stack())}
		errors.ReportPanic(perr)
		err = perr
	}()
	if err = root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
	}
	return err
}
