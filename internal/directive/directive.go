// Package directive implements the single inline suppression form the
// validator recognizes: a comment line whose exact content is
// "dockerfile-utils: ignore" suppresses every diagnostic whose
// instruction line equals that comment's line plus one. Diagnostics
// with no instruction line (directive- or document-level
// findings) are never suppressed by this mechanism.
package directive

import (
	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

// IgnoreMarker is the exact comment text that triggers suppression.
const IgnoreMarker = "dockerfile-utils: ignore"

// SuppressedLines returns the set of instruction lines whose diagnostics
// should be dropped: one entry per ignore-comment, at that comment's line
// plus one.
func SuppressedLines(doc *ast.Document) map[int]bool {
	suppressed := make(map[int]bool)
	for _, c := range doc.Comments {
		if c.Text == IgnoreMarker {
			suppressed[c.Line+1] = true
		}
	}
	return suppressed
}

// Filter drops every diagnostic whose instruction line is in suppressed,
// preserving the relative order of the rest.
func Filter(diags []diagnostic.Diagnostic, suppressed map[int]bool) []diagnostic.Diagnostic {
	if len(suppressed) == 0 {
		return diags
	}
	out := diags[:0:0]
	for _, d := range diags {
		if line, ok := d.InstructionLine(); ok && suppressed[line] {
			continue
		}
		out = append(out, d)
	}
	return out
}
