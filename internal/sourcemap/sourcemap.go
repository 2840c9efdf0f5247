// Package sourcemap provides the coordinate and text facade: mapping
// between byte offsets and (line, character) positions, and slicing
// source text by range. Positions use zero-based lines and UTF-16
// code units for the character axis, matching editor (LSP) semantics.
//
// Line endings \n, \r, and \r\n are each treated as a single line
// terminator; the terminator itself is not part of the preceding
// line's content.
package sourcemap

import (
	"strings"
	"unicode/utf16"
)

// Position is a zero-based line/character location. Character counts
// UTF-16 code units from the start of the line.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open-by-column, inclusive-by-line span: Start is
// inclusive, End is exclusive (it points just past the last covered
// character).
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// SourceMap provides line/offset/UTF-16 coordinate conversions and text
// slicing over a single document's source text.
type SourceMap struct {
	source []byte
	// lines holds each line's content without its terminator.
	lines []string
	// lineByteOffsets[i] is the byte offset where line i begins in source.
	lineByteOffsets []int
	// termLen[i] is the length in bytes of the terminator ending line i
	// (0 for the final line if the document doesn't end with one).
	termLen []int
}

// New builds a SourceMap over source. Accepts \n, \r, and \r\n line
// terminators, possibly mixed within the same document.
func New(source []byte) *SourceMap {
	sm := &SourceMap{source: source}
	start := 0
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			sm.appendLine(source[start:i], start, 1)
			start = i + 1
		case '\r':
			if i+1 < len(source) && source[i+1] == '\n' {
				sm.appendLine(source[start:i], start, 2)
				i++
			} else {
				sm.appendLine(source[start:i], start, 1)
			}
			start = i + 1
		}
	}
	sm.appendLine(source[start:], start, 0)
	return sm
}

func (sm *SourceMap) appendLine(content []byte, byteOffset, termLen int) {
	sm.lines = append(sm.lines, string(content))
	sm.lineByteOffsets = append(sm.lineByteOffsets, byteOffset)
	sm.termLen = append(sm.termLen, termLen)
}

// LineCount returns the number of lines in the document.
func (sm *SourceMap) LineCount() int {
	return len(sm.lines)
}

// Line returns the content of the given zero-based line, excluding its
// terminator. Returns "" if out of range.
func (sm *SourceMap) Line(line int) string {
	if line < 0 || line >= len(sm.lines) {
		return ""
	}
	return sm.lines[line]
}

// Source returns the raw document text.
func (sm *SourceMap) Source() []byte {
	return sm.source
}

// PositionAt converts a byte offset into the document into a
// line/character Position. Offsets past the end of the document clamp
// to the document's end.
func (sm *SourceMap) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	// Binary search for the line containing offset.
	lo, hi := 0, len(sm.lineByteOffsets)-1
	line := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if sm.lineByteOffsets[mid] <= offset {
			line = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	lineStart := sm.lineByteOffsets[line]
	lineBytes := []byte(sm.lines[line])
	col := offset - lineStart
	if col > len(lineBytes) {
		col = len(lineBytes)
	}
	return Position{Line: line, Character: utf16Len(lineBytes[:col])}
}

// OffsetAt converts a Position back into a byte offset into the
// document. Characters beyond the line's length clamp to the line's
// end; lines beyond the document clamp to EOF.
func (sm *SourceMap) OffsetAt(pos Position) int {
	if pos.Line < 0 {
		pos.Line = 0
	}
	if pos.Line >= len(sm.lines) {
		return len(sm.source)
	}
	lineBytes := []byte(sm.lines[pos.Line])
	byteCol := byteOffsetForUTF16Column(lineBytes, pos.Character)
	return sm.lineByteOffsets[pos.Line] + byteCol
}

// Slice returns the text covered by r.
func (sm *SourceMap) Slice(r Range) string {
	start := sm.OffsetAt(r.Start)
	end := sm.OffsetAt(r.End)
	if end < start {
		end = start
	}
	if end > len(sm.source) {
		end = len(sm.source)
	}
	return string(sm.source[start:end])
}

// Snippet extracts a range of lines as a single string. Both startLine
// and endLine are zero-based and inclusive.
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sm.lines) {
		endLine = len(sm.lines) - 1
	}
	if startLine > endLine || startLine >= len(sm.lines) {
		return ""
	}
	return strings.Join(sm.lines[startLine:endLine+1], "\n")
}

// utf16Len returns the number of UTF-16 code units needed to encode s.
func utf16Len(s []byte) int {
	return len(utf16.Encode([]rune(string(s))))
}

// byteOffsetForUTF16Column walks line, converting a UTF-16 code-unit
// column into a byte offset within line.
func byteOffsetForUTF16Column(line []byte, col int) int {
	if col <= 0 {
		return 0
	}
	units := 0
	byteIdx := 0
	for _, r := range string(line) {
		if units >= col {
			return byteIdx
		}
		rl := len(string(r))
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		byteIdx += rl
	}
	return len(line)
}
