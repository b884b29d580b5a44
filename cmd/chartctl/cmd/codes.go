package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/go-drift/charts/pkg/errors"
)

func newCodesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List error and warning codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tCODE\tDESCRIPTION")
			for c := errors.CodeContainerNotSet; c <= errors.CodeUnknownSeriesType; c++ {
				fmt.Fprintf(w, "error\t%d\t%s\n", int(c), c.Description("<name>"))
			}
			for c := errors.WarnCantSerializeFunction; c <= errors.WarnOutOfRange; c++ {
				fmt.Fprintf(w, "warning\t%d\t%s\n", int(c), c.Description("<value>", "<min>", "<max>"))
			}
			return w.Flush()
		},
	}
}
