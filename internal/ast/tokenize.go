package ast

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

func (r rawLine) end() sourcemap.Position {
	return sourcemap.Position{Line: r.lineNo, Character: utf16Len(r.text)}
}

// charPos is one rune of a joined logical instruction line, tagged with
// its position in the original (pre-continuation-join) source.
type charPos struct {
	r     rune
	line  int
	col   int // UTF-16 start column on that line
	width int // 1, or 2 for supplementary-plane runes
}

func (c charPos) start() sourcemap.Position {
	return sourcemap.Position{Line: c.line, Character: c.col}
}
func (c charPos) end() sourcemap.Position {
	return sourcemap.Position{Line: c.line, Character: c.col + c.width}
}

// joinedText is a logical instruction line (continuation lines already
// joined) retaining, per rune, the physical source position it came from.
type joinedText struct {
	chars []charPos
}

func joinSegments(segments []rawLine) joinedText {
	var jt joinedText
	for _, seg := range segments {
		col := 0
		for _, r := range seg.text {
			w := 1
			if r > 0xFFFF {
				w = 2
			}
			jt.chars = append(jt.chars, charPos{r: r, line: seg.lineNo, col: col, width: w})
			col += w
		}
	}
	return jt
}

func (j joinedText) text() string {
	var b strings.Builder
	for _, c := range j.chars {
		b.WriteRune(c.r)
	}
	return b.String()
}

func (j joinedText) slice(start, end int) joinedText {
	if start < 0 {
		start = 0
	}
	if end > len(j.chars) {
		end = len(j.chars)
	}
	if start >= end {
		return joinedText{}
	}
	return joinedText{chars: append([]charPos(nil), j.chars[start:end]...)}
}

// rangeOf returns the source range spanned by j. If j is empty, returns a
// zero-width range at fallback.
func (j joinedText) rangeOf(fallback sourcemap.Position) sourcemap.Range {
	if len(j.chars) == 0 {
		return sourcemap.Range{Start: fallback, End: fallback}
	}
	return sourcemap.Range{Start: j.chars[0].start(), End: j.chars[len(j.chars)-1].end()}
}

func (j joinedText) trimLeadingSpace() joinedText {
	i := 0
	for i < len(j.chars) && unicode.IsSpace(j.chars[i].r) {
		i++
	}
	return j.slice(i, len(j.chars))
}

func (j joinedText) trimTrailingSpace() joinedText {
	end := len(j.chars)
	for end > 0 && unicode.IsSpace(j.chars[end-1].r) {
		end--
	}
	return j.slice(0, end)
}

// splitKeyword extracts the leading whitespace-delimited token (the
// instruction keyword) and returns the remainder.
func splitKeyword(j joinedText) (string, joinedText, sourcemap.Range) {
	j = j.trimLeadingSpace()
	i := 0
	for i < len(j.chars) && !unicode.IsSpace(j.chars[i].r) {
		i++
	}
	kw := j.slice(0, i)
	rest := j.slice(i, len(j.chars))
	zero := sourcemap.Position{}
	if len(j.chars) > 0 {
		zero = j.chars[0].start()
	}
	return kw.text(), rest, kw.rangeOf(zero)
}

// consumeFlags peels off a leading run of `--name` / `--name=value` flag
// tokens, each separated by whitespace, stopping at the first token that
// doesn't start with "--".
func consumeFlags(j joinedText) ([]Flag, joinedText) {
	var flags []Flag
	j = j.trimLeadingSpace()
	for len(j.chars) >= 2 && j.chars[0].r == '-' && j.chars[1].r == '-' {
		i := 0
		for i < len(j.chars) && !unicode.IsSpace(j.chars[i].r) {
			i++
		}
		tok := j.slice(0, i)
		flags = append(flags, parseFlag(tok))
		j = j.slice(i, len(j.chars)).trimLeadingSpace()
	}
	return flags, j
}

func parseFlag(tok joinedText) Flag {
	text := tok.text()
	body := strings.TrimPrefix(text, "--")
	eq := strings.IndexByte(body, '=')
	f := Flag{Range: tok.rangeOf(sourcemap.Position{})}
	if eq < 0 {
		f.Name = body
		nameStart := 2 // past "--"
		f.NameRange = tok.slice(nameStart, len(tok.chars)).rangeOf(f.Range.End)
		return f
	}
	f.Name = body[:eq]
	f.Value = body[eq+1:]
	f.HasValue = true
	nameStart := 2
	nameEnd := nameStart + len([]rune(f.Name))
	f.NameRange = tok.slice(nameStart, nameEnd).rangeOf(f.Range.End)
	f.ValueRange = tok.slice(nameEnd+1, len(tok.chars)).rangeOf(f.Range.End)
	return f
}

// splitWords splits j on runs of whitespace, honoring single/double quotes
// the way the shell-form instruction arguments are conventionally written
// (a quote suppresses splitting until its matching close).
func splitWords(j joinedText) []Word {
	var words []Word
	i := 0
	n := len(j.chars)
	for i < n {
		for i < n && unicode.IsSpace(j.chars[i].r) {
			i++
		}
		if i >= n {
			break
		}
		start := i
		var quote rune
		for i < n {
			c := j.chars[i].r
			if quote != 0 {
				if c == quote {
					quote = 0
				}
				i++
				continue
			}
			if c == '\'' || c == '"' {
				quote = c
				i++
				continue
			}
			if unicode.IsSpace(c) {
				break
			}
			i++
		}
		tok := j.slice(start, i)
		words = append(words, Word{Value: tok.text(), Range: tok.rangeOf(sourcemap.Position{})})
	}
	return words
}

// decomposeJSON parses a `[ "a", "b" ]` exec-form array, matching each
// decoded string element back to its source sub-range by scanning the
// original bracketed text for quoted segments in array order. Falls back
// to an empty Word list (leaving the JSONForm flag as the only signal)
// when the text isn't valid JSON.
func decomposeJSON(j joinedText) []Word {
	text := j.text()
	var values []string
	if err := json.Unmarshal([]byte(text), &values); err != nil {
		return nil
	}
	var words []Word
	cursor := 0
	for _, v := range values {
		idx, length := findJSONStringSpan(j, cursor, v)
		if idx < 0 {
			continue
		}
		tok := j.slice(idx, idx+length)
		words = append(words, Word{Value: v, Range: tok.rangeOf(sourcemap.Position{})})
		cursor = idx + length
	}
	return words
}

// findJSONStringSpan locates the next double-quoted JSON string literal
// at or after from whose decoded value equals want, returning the char
// index of its opening quote and its length including both quotes.
func findJSONStringSpan(j joinedText, from int, want string) (int, int) {
	n := len(j.chars)
	for i := from; i < n; i++ {
		if j.chars[i].r != '"' {
			continue
		}
		start := i
		i++
		var raw strings.Builder
		raw.WriteByte('"')
		for i < n {
			c := j.chars[i].r
			raw.WriteRune(c)
			i++
			if c == '\\' && i < n {
				raw.WriteRune(j.chars[i].r)
				i++
				continue
			}
			if c == '"' {
				break
			}
		}
		var decoded string
		if err := json.Unmarshal([]byte(raw.String()), &decoded); err == nil && decoded == want {
			return start, i - start
		}
	}
	return -1, 0
}
