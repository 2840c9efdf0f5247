// Package format implements the line-oriented indentation planner:
// it classifies every source line as an instruction
// start, a continuation of an instruction, or heredoc body, then emits
// the minimal whitespace edits that normalize continuation-line
// indentation and trim trailing whitespace on blank lines.
package format

import (
	"strings"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/settingsio"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

// classification holds the per-line plan computed once per document.
type classification struct {
	sm       *sourcemap.SourceMap
	indented []bool // true if the line is a continuation line that should be indented
	skipped  []bool // true if the line is a continuation line at all (for ignoreMultilineInstructions)
	heredoc  []bool
}

func classify(doc *ast.Document) *classification {
	n := doc.SourceMap.LineCount()
	c := &classification{
		sm:       doc.SourceMap,
		indented: make([]bool, n),
		skipped:  make([]bool, n),
		heredoc:  make([]bool, n),
	}
	for _, inst := range doc.Instructions {
		if inst.StartLine >= 0 && inst.StartLine < n {
			c.indented[inst.StartLine] = false
		}
		for l := inst.StartLine + 1; l <= inst.EndLine && l < n; l++ {
			c.indented[l] = true
			c.skipped[l] = true
		}
		for _, h := range inst.Heredocs {
			start := h.BodyRange.Start.Line
			end := h.BodyRange.End.Line
			if end < start {
				continue
			}
			for l := start; l <= end && l < n; l++ {
				c.heredoc[l] = true
			}
		}
	}
	return c
}

// Format computes the text edits that normalize every continuation-line
// indent and trim trailing whitespace across the whole document.
func Format(source []byte, settings *settingsio.FormatterSettings) []diagnostic.TextEdit {
	doc := ast.Parse(source)
	s := settingsio.DefaultFormatterSettings()
	if settings != nil {
		s = *settings
	}
	c := classify(doc)
	var edits []diagnostic.TextEdit
	// The trailing-EOF deletion subsumes any per-line trim on the blank
	// tail, so per-line edits stop where it begins.
	eof, hasEOF := c.trailingEOFEdit()
	limit := doc.SourceMap.LineCount()
	if hasEOF {
		limit = eof.Range.Start.Line
	}
	for line := 0; line < limit; line++ {
		edits = append(edits, c.editsForLine(line, s)...)
	}
	if hasEOF {
		edits = append(edits, eof)
	}
	return compact(edits)
}

// FormatRange computes text edits limited to the lines overlapping r.
func FormatRange(source []byte, r sourcemap.Range, settings *settingsio.FormatterSettings) []diagnostic.TextEdit {
	doc := ast.Parse(source)
	s := settingsio.DefaultFormatterSettings()
	if settings != nil {
		s = *settings
	}
	c := classify(doc)
	startLine := r.Start.Line
	endLine := r.End.Line
	if endLine >= doc.SourceMap.LineCount() {
		endLine = doc.SourceMap.LineCount() - 1
	}
	var edits []diagnostic.TextEdit
	for line := startLine; line <= endLine && line >= 0; line++ {
		edits = append(edits, c.editsForLine(line, s)...)
	}
	return compact(edits)
}

// FormatOnType computes the (at most one) text edit triggered by typing
// ch at pos: if ch is the active escape character, pos is not inside a
// comment or directive, and only whitespace/EOL follows pos on its line,
// the next line is scheduled for indentation (unless it is heredoc body).
func FormatOnType(source []byte, pos sourcemap.Position, ch string, settings *settingsio.FormatterSettings) []diagnostic.TextEdit {
	doc := ast.Parse(source)
	s := settingsio.DefaultFormatterSettings()
	if settings != nil {
		s = *settings
	}
	if ch != string(doc.Directive.Escape) {
		return nil
	}
	if insideCommentOrDirective(doc, pos.Line) {
		return nil
	}
	line := doc.SourceMap.Line(pos.Line)
	rest := sliceFromUTF16Column(line, pos.Character)
	if strings.TrimRight(rest, " \t\r") != "" {
		return nil
	}
	next := pos.Line + 1
	if next >= doc.SourceMap.LineCount() {
		return nil
	}
	c := classify(doc)
	if c.heredoc[next] {
		return nil
	}
	edits := c.editsForLineForced(next, s, true)
	return compact(edits)
}

func insideCommentOrDirective(doc *ast.Document, line int) bool {
	if doc.Directive.WasPresent && doc.Directive.Range.Start.Line == line {
		return true
	}
	for _, com := range doc.Comments {
		if com.Line == line {
			return true
		}
	}
	return false
}

// sliceFromUTF16Column returns the suffix of line starting at the given
// UTF-16 code-unit column.
func sliceFromUTF16Column(line string, col int) string {
	units := 0
	byteIdx := 0
	for _, r := range line {
		if units >= col {
			break
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		byteIdx += len(string(r))
	}
	if byteIdx > len(line) {
		byteIdx = len(line)
	}
	return line[byteIdx:]
}

// editsForLine computes the edit(s) for line under normal (non-on-type)
// formatting: it honors ignoreMultilineInstructions and heredoc exclusion.
func (c *classification) editsForLine(line int, s settingsio.FormatterSettings) []diagnostic.TextEdit {
	if s.IgnoreMultilineInstructions && c.skipped[line] {
		return nil
	}
	if c.heredoc[line] {
		return nil
	}
	return c.editsForLineForced(line, s, c.indented[line])
}

// editsForLineForced computes the edit for line given an explicit
// "should be indented" flag, bypassing ignoreMultilineInstructions
// (used by FormatOnType, which always forces the next line to indent).
func (c *classification) editsForLineForced(line int, s settingsio.FormatterSettings, indented bool) []diagnostic.TextEdit {
	text := c.sm.Line(line)
	col := 0
	for col < len(text) && (text[col] == ' ' || text[col] == '\t') {
		col++
	}
	lineEmpty := col >= len(text)
	startPos := sourcemap.Position{Line: line, Character: 0}

	if lineEmpty {
		if col == 0 {
			return nil
		}
		endPos := sourcemap.Position{Line: line, Character: utf16Len(text[:col])}
		return []diagnostic.TextEdit{{Range: sourcemap.Range{Start: startPos, End: endPos}, NewText: ""}}
	}

	current := text[:col]
	if indented {
		unit := s.IndentUnit()
		if current != unit {
			endPos := sourcemap.Position{Line: line, Character: utf16Len(current)}
			return []diagnostic.TextEdit{{Range: sourcemap.Range{Start: startPos, End: endPos}, NewText: unit}}
		}
		return nil
	}
	if col > 0 {
		endPos := sourcemap.Position{Line: line, Character: utf16Len(current)}
		return []diagnostic.TextEdit{{Range: sourcemap.Range{Start: startPos, End: endPos}, NewText: ""}}
	}
	return nil
}

// trailingEOFEdit deletes any whitespace-only tail after the last
// non-blank line, through end of file.
func (c *classification) trailingEOFEdit() (diagnostic.TextEdit, bool) {
	n := c.sm.LineCount()
	last := n - 1
	for last >= 0 && strings.TrimSpace(c.sm.Line(last)) == "" {
		last--
	}
	firstBlank := last + 1
	if firstBlank >= n {
		return diagnostic.TextEdit{}, false
	}
	// Only emit if there is actually trailing whitespace beyond the last
	// content line (more than a single empty final line from EOF itself).
	if firstBlank == n-1 && c.sm.Line(firstBlank) == "" {
		return diagnostic.TextEdit{}, false
	}
	// An unterminated heredoc swallows the rest of the file; its lines
	// stay untouched.
	for l := firstBlank; l < n; l++ {
		if c.heredoc[l] {
			return diagnostic.TextEdit{}, false
		}
	}
	start := sourcemap.Position{Line: firstBlank, Character: 0}
	end := sourcemap.Position{Line: n - 1, Character: utf16Len(c.sm.Line(n - 1))}
	return diagnostic.TextEdit{Range: sourcemap.Range{Start: start, End: end}, NewText: ""}, true
}

// compact drops zero-value (no-op) edits and edits with Start==End and
// empty NewText.
func compact(edits []diagnostic.TextEdit) []diagnostic.TextEdit {
	out := edits[:0]
	for _, e := range edits {
		if e.Range.Start == e.Range.End && e.NewText == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}
