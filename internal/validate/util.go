package validate

import (
	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

// subRange maps a [from, to) rune-offset sub-span of a single-line word's
// Value back to source coordinates, by offsetting from the word's start
// character. Only valid for words that do not themselves span multiple
// source lines (true for any word scanned before a heredoc body begins).
func subRange(w ast.Word, from, to int) sourcemap.Range {
	start := w.Range.Start
	end := w.Range.Start
	start.Character += from
	end.Character += to
	return sourcemap.Range{Start: start, End: end}
}
