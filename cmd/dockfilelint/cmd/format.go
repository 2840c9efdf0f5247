package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/format"
	"github.com/wharflab/dockfilelint/internal/settingsio"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

func formatCommand() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "Print the re-indented form of a Dockerfile",
		ArgsUsage: "DOCKERFILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "insert-spaces", Usage: "Indent with spaces instead of a tab"},
			&cli.IntFlag{Name: "tab-size", Usage: "Indent width when --insert-spaces is set", Value: 4},
			&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "Write the result back to the file instead of stdout"},
		},
		Action: runFormat,
	}
}

func runFormat(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("format requires exactly one Dockerfile path")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	overrides := map[string]any{}
	if cmd.IsSet("insert-spaces") {
		overrides["formatter.insert-spaces"] = cmd.Bool("insert-spaces")
	}
	if cmd.IsSet("tab-size") {
		tabSize := cmd.Int("tab-size")
		if tabSize < 0 {
			tabSize = 0
		}
		overrides["formatter.tab-size"] = tabSize
	}
	cfg, err := settingsio.LoadWithOverrides(path, overrides)
	if err != nil {
		return err
	}
	edits := format.Format(content, &cfg.Formatter)
	out := applyEdits(content, edits)

	if cmd.Bool("write") {
		return os.WriteFile(path, out, 0o644)
	}
	_, err = os.Stdout.Write(out)
	return err
}

// applyEdits applies a pairwise non-overlapping TextEdit sequence to
// content.
func applyEdits(content []byte, edits []diagnostic.TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}
	sm := sourcemap.New(content)
	sorted := make([]diagnostic.TextEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sm.OffsetAt(sorted[i].Range.Start) < sm.OffsetAt(sorted[j].Range.Start)
	})

	var out []byte
	cursor := 0
	for _, e := range sorted {
		start := sm.OffsetAt(e.Range.Start)
		end := sm.OffsetAt(e.Range.End)
		if start < cursor {
			continue // overlapping edit; invariant (c) says this shouldn't happen
		}
		out = append(out, content[cursor:start]...)
		out = append(out, []byte(e.NewText)...)
		cursor = end
	}
	out = append(out, content[cursor:]...)
	return out
}
