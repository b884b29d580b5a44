package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/charts/pkg/config"
)

type convertOptions struct {
	output string
	to     string
}

func newConvertCommand() *cobra.Command {
	opts := &convertOptions{}
	c := &cobra.Command{
		Use:   "convert <document>",
		Short: "Convert a chart document between JSON, YAML and XML",
		Long: `Convert a chart document between JSON, YAML and XML.

The target format comes from --to, or from the extension of --output.
Without --output the result is written to stdout.

Examples:
  chartctl convert chart.yaml --to xml
  chartctl convert chart.xml -o chart.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := targetFormat(opts)
			if err != nil {
				return err
			}
			doc, err := config.Load(args[0])
			if err != nil {
				return err
			}
			data, err := doc.Encode(format)
			if err != nil {
				return fmt.Errorf("encode %s: %w", format, err)
			}
			if opts.output == "" || opts.output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(opts.output, data, 0o644)
		},
	}
	c.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default: stdout)")
	c.Flags().StringVar(&opts.to, "to", "", "target format: json, yaml or xml")
	return c
}

func targetFormat(opts *convertOptions) (config.Format, error) {
	if opts.to != "" {
		return config.ParseFormat(opts.to)
	}
	if opts.output != "" && opts.output != "-" {
		return config.FormatOf(opts.output)
	}
	return "", fmt.Errorf("target format required: pass --to or an --output with an extension")
}
