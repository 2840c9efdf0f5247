package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/dockfilelint/internal/settingsio"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage dockfilelint configuration",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write a config file seeded with the built-in defaults",
				Action: runConfigInit,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "Path to write",
						Value: settingsio.ConfigFileNames[0],
					},
				},
			},
		},
	}
}

func runConfigInit(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := settingsio.Default().MarshalTOML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "wrote", path)
	return nil
}
