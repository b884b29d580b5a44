// Command chartctl renders and converts chart documents.
package main

import (
	"os"

	"github.com/go-drift/charts/cmd/chartctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
