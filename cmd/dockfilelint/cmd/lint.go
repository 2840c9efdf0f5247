package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/discovery"
	"github.com/wharflab/dockfilelint/internal/reporter"
	"github.com/wharflab/dockfilelint/internal/settingsio"
	"github.com/wharflab/dockfilelint/internal/validate"
)

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Validate Dockerfile(s) and report diagnostics",
		ArgsUsage: "[DOCKERFILE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, sarif, github-actions, markdown",
				Value:   "text",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob pattern of paths to skip (repeatable)",
			},
		},
		Action: runLint,
	}
}

func runLint(_ context.Context, cmd *cli.Command) error {
	log := logrus.StandardLogger()

	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{"."}
	}
	files, err := discovery.Paths(inputs, cmd.StringSlice("exclude"))
	if err != nil {
		return fmt.Errorf("discovering Dockerfiles: %w", err)
	}
	if len(files) == 0 {
		log.Warn("no Dockerfiles found")
		os.Exit(3)
	}

	format, err := reporter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	rep, err := reporter.New(reporter.Options{Format: format, Writer: os.Stdout, ToolName: "dockfilelint"})
	if err != nil {
		return err
	}

	var all []reporter.Finding
	sources := map[string][]byte{}
	hasError := false
	for _, path := range files {
		content, rerr := os.ReadFile(path)
		if rerr != nil {
			log.WithField("file", path).WithError(rerr).Warn("skipping unreadable file")
			continue
		}
		sources[path] = content

		var cfg *settingsio.Config
		var cerr error
		if explicit := cmd.String("config"); explicit != "" {
			cfg, cerr = settingsio.LoadFromFile(explicit)
		} else {
			cfg, cerr = settingsio.Load(path)
		}
		if cerr != nil {
			log.WithField("file", path).WithError(cerr).Warn("using default settings")
			cfg = settingsio.Default()
		}

		diags := validate.Validate(content, &cfg.Validator)
		findings := reporter.FromDiagnostics(path, diags)
		all = append(all, findings...)
		for _, finding := range findings {
			if finding.Diagnostic.Severity == diagnostic.SeverityError {
				hasError = true
			}
		}
	}

	if err := rep.Report(all, sources, reporter.ReportMetadata{FilesScanned: len(files)}); err != nil {
		return err
	}
	if hasError {
		os.Exit(1)
	}
	return nil
}
