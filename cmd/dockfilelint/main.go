// Command dockfilelint is a thin CLI front end for the validator engine
// and formatter: it wires glob expansion, settings loading, and reporter
// selection around validate/format.
package main

import (
	"context"
	"os"

	"github.com/wharflab/dockfilelint/cmd/dockfilelint/cmd"
)

func main() {
	if err := cmd.NewApp().Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
