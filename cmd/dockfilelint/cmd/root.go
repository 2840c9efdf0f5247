// Package cmd wires the dockfilelint CLI command tree.
package cmd

import (
	"github.com/urfave/cli/v3"

	"github.com/wharflab/dockfilelint/internal/version"
)

// NewApp builds the dockfilelint CLI application.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "dockfilelint",
		Usage:   "Validate and format Dockerfiles",
		Version: version.Version(),
		Description: `dockfilelint runs the validator engine and formatter against a
Dockerfile and reports the results.

Examples:
  dockfilelint lint Dockerfile
  dockfilelint lint --format json **/Dockerfile*
  dockfilelint format Dockerfile`,
		Commands: []*cli.Command{
			lintCommand(),
			formatCommand(),
			configCommand(),
		},
	}
}
