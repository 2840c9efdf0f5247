// Package ast adapts raw Dockerfile source into a tree of directives and
// instructions with column-precise ranges for every argument, flag, and
// quoted JSON element. It follows the same overall algorithm as BuildKit's
// Dockerfile parser (line scanning, escape-aware continuation joining,
// heredoc extraction, leading-comment association) but never fails hard:
// malformed input is surfaced as diagnostics attached to the Document
// instead of a returned error, and every token keeps enough position data
// to satisfy column-precise editor tooling.
package ast

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

// DefaultEscape is the escape character used when no `# escape=` directive
// is present.
const DefaultEscape = '\\'

// Directive records the parser directives recognized at the top of a
// Dockerfile (currently only escape; syntax is accepted and ignored, same
// as upstream).
type Directive struct {
	Escape rune
	// Range covers the `# escape=X` comment line, if one was present.
	Range      sourcemap.Range
	WasPresent bool
	// Name is the directive key exactly as written (e.g. "Escape"),
	// preserved so callers can check it against the canonical lowercase
	// form.
	Name string
}

// Flag is a `--name` or `--name=value` instruction flag.
type Flag struct {
	Name       string
	Value      string
	HasValue   bool
	NameRange  sourcemap.Range
	ValueRange sourcemap.Range
	// Range covers the entire flag token, including the leading "--".
	Range sourcemap.Range
}

// Word is a single whitespace-delimited shell-form argument, or a single
// decomposed string literal from a JSON-form argument list.
type Word struct {
	Value string
	// Expanded is Value with unambiguous variable substitution applied:
	// references whose variable has an earlier in-file ARG default or ENV
	// value are replaced, everything else is left verbatim. Equals Value
	// when nothing expands.
	Expanded string
	Range    sourcemap.Range
}

// Heredoc is a `<<NAME` redirection attached to a RUN/COPY/ADD instruction
// and the literal content collected up to its terminator line.
type Heredoc struct {
	Name           string
	FileDescriptor uint
	Expand         bool
	Chomp          bool
	Content        string
	// Range covers the heredoc's `<<NAME` token within the instruction line.
	Range sourcemap.Range
	// BodyRange covers the heredoc body through its terminator line.
	BodyRange sourcemap.Range
}

// Instruction is one builder instruction (possibly spanning several
// continuation lines) together with its flags, arguments, and any attached
// heredocs.
type Instruction struct {
	// Keyword is upper-cased (FROM, RUN, ...); unrecognized keywords are
	// preserved verbatim, upper-cased, so callers can still detect them.
	Keyword      string
	KeywordRange sourcemap.Range

	// RawKeyword is the keyword exactly as written in the source, before
	// upper-casing, so callers can check it against Keyword for casing.
	RawKeyword string

	// Range spans the full instruction, from the keyword through its last
	// continuation line, or through its last heredoc's terminator line when
	// it has heredoc bodies.
	Range sourcemap.Range

	// StartLine/EndLine are zero-based line numbers; EndLine is the line of
	// the last continuation, or of the last heredoc terminator when the
	// instruction has heredoc bodies (inclusive).
	StartLine int
	EndLine   int

	Flags []Flag

	// RawArgsRange covers the raw instruction arguments after flags, as
	// they appear in the (continuation-joined) logical line, useful for
	// instructions validated as a single opaque string (RUN, CMD shell
	// form, etc.)
	RawArgsRange sourcemap.Range
	RawArgs      string

	// JSONForm is true when the arguments are a `[ "a", "b" ]` exec-form
	// array.
	JSONForm bool

	// Words holds whitespace-delimited shell-form words, or (when
	// JSONForm) the decomposed string elements in array order, each with
	// its own source range.
	Words []Word

	Heredocs []Heredoc

	// PrecedingComments holds the contiguous `#` comment lines (with any
	// `#` and surrounding whitespace stripped) immediately above this
	// instruction, reset whenever a blank comment line is seen.
	PrecedingComments []string

	// IsOnbuildTrigger is true for the synthetic Instruction representing
	// the inner instruction an ONBUILD instruction wraps.
	IsOnbuildTrigger bool
}

// Comment is a single `#...` line not consumed as a parser directive.
type Comment struct {
	// Text is the comment body with the leading "#" and surrounding
	// whitespace stripped.
	Text string
	// Line is the comment's zero-based source line.
	Line  int
	Range sourcemap.Range
}

// Document is the parsed form of a whole Dockerfile.
type Document struct {
	Directive    Directive
	Instructions []Instruction
	Comments     []Comment

	// Diagnostics holds parser-level findings (duplicated/invalid escape
	// directive, empty continuation lines, unterminated heredocs) that the
	// validator folds into its own output rather than treating as a fatal
	// parse error.
	Diagnostics []diagnostic.Diagnostic

	SourceMap *sourcemap.SourceMap
}

var (
	reDirective  = regexp.MustCompile(`^#\s*([a-zA-Z][a-zA-Z0-9]*)\s*=\s*(.+?)\s*$`)
	reComment    = regexp.MustCompile(`^\s*#`)
	reHeredocTok = regexp.MustCompile(`^(\d*)<<(-?)(['"]?)([a-zA-Z_][a-zA-Z0-9_]*)(['"]?)$`)
)

// rawLine is a single physical line of input, stripped of its terminator
// but with byte offsets preserved so later stages can still map back into
// the original source.
type rawLine struct {
	text   string
	offset int // byte offset of text[0] in the source
	lineNo int // zero-based line number
}

// Parse builds a Document from raw Dockerfile source.
func Parse(source []byte) *Document {
	sm := sourcemap.New(source)
	doc := &Document{SourceMap: sm, Directive: Directive{Escape: DefaultEscape}}

	lines := make([]rawLine, sm.LineCount())
	for i := range lines {
		lines[i] = rawLine{text: sm.Line(i), offset: sm.OffsetAt(sourcemap.Position{Line: i}), lineNo: i}
	}

	p := &parser{doc: doc, sm: sm, lines: lines}
	p.run()
	return doc
}

type parser struct {
	doc   *Document
	sm    *sourcemap.SourceMap
	lines []rawLine

	directiveDone bool
	escapeSeen    bool
	comments      []string

	// vars holds ARG defaults and ENV values seen so far, feeding each
	// later instruction's expanded arguments.
	vars map[string]string
}

func (p *parser) run() {
	i := 0
	for i < len(p.lines) {
		line := p.lines[i]
		trimmed := strings.TrimRightFunc(line.text, unicode.IsSpace)

		if !p.directiveDone {
			if p.consumeDirective(line) {
				i++
				continue
			}
		}

		if isCommentLine(trimmed) {
			p.directiveDone = true
			body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(trimmed), "#"))
			p.doc.Comments = append(p.doc.Comments, Comment{
				Text: body,
				Line: line.lineNo,
				Range: sourcemap.Range{
					Start: sourcemap.Position{Line: line.lineNo, Character: 0},
					End:   sourcemap.Position{Line: line.lineNo, Character: utf16Len(trimmed)},
				},
			})
			if body == "" {
				p.comments = nil
			} else {
				p.comments = append(p.comments, body)
			}
			i++
			continue
		}

		if strings.TrimSpace(trimmed) == "" {
			i++
			continue
		}

		p.directiveDone = true
		i = p.consumeInstruction(i)
	}
}

// consumeDirective handles the leading run of `# key=value` directive
// comments. Returns true if line was consumed as (or as a terminator of)
// the directive block.
func (p *parser) consumeDirective(line rawLine) bool {
	m := reDirective.FindStringSubmatch(line.text)
	if m == nil {
		p.directiveDone = true
		return false
	}
	key := strings.ToLower(m[1])
	if key != "escape" && key != "syntax" {
		p.directiveDone = true
		return false
	}
	lineRange := sourcemap.Range{
		Start: sourcemap.Position{Line: line.lineNo, Character: 0},
		End:   sourcemap.Position{Line: line.lineNo, Character: utf16Len(line.text)},
	}
	if key == "syntax" {
		return true
	}
	if p.escapeSeen {
		p.doc.Diagnostics = append(p.doc.Diagnostics, diagnostic.New(
			lineRange, diagnostic.SeverityError, diagnostic.DuplicatedEscapeDirective,
			diagnostic.Format("only one escape parser directive can be used, ${0} found", m[2])))
		return true
	}
	val := m[2]
	if val != "`" && val != `\` {
		p.doc.Diagnostics = append(p.doc.Diagnostics, diagnostic.New(
			lineRange, diagnostic.SeverityError, diagnostic.InvalidEscapeDirective,
			diagnostic.Format("invalid ESCAPE '${0}'. Must be ` or \\", val)))
		p.doc.Directive.Name = m[1]
		p.doc.Directive.Range = lineRange
		p.doc.Directive.WasPresent = true
		p.escapeSeen = true
		return true
	}
	p.doc.Directive = Directive{Escape: rune(val[0]), Range: lineRange, WasPresent: true, Name: m[1]}
	p.escapeSeen = true
	return true
}

func isCommentLine(s string) bool {
	return reComment.MatchString(s)
}

// consumeInstruction joins continuation lines starting at index i into a
// single logical instruction, builds its Instruction record, appends it to
// the document, and returns the index of the next unconsumed line.
func (p *parser) consumeInstruction(i int) int {
	escape := p.doc.Directive.Escape
	startLine := p.lines[i].lineNo
	var segments []rawLine
	var blankRuns [][2]int
	runStart := -1

	closeRun := func(lastBlank int) {
		if runStart >= 0 {
			blankRuns = append(blankRuns, [2]int{runStart, lastBlank})
			runStart = -1
		}
	}

	for i < len(p.lines) {
		line := p.lines[i]
		body, isLast := trimContinuation(line.text, escape)
		segments = append(segments, rawLine{text: body, offset: line.offset, lineNo: line.lineNo})
		i++
		if isLast {
			break
		}
		// Consume any immediately following comment or blank lines inside
		// the continuation without ending it, same as BuildKit's parser.
		for i < len(p.lines) {
			next := p.lines[i]
			nt := strings.TrimRightFunc(next.text, unicode.IsSpace)
			if isCommentLine(nt) {
				closeRun(next.lineNo - 1)
				i++
				continue
			}
			if strings.TrimSpace(nt) == "" {
				if runStart < 0 {
					runStart = next.lineNo
				}
				i++
				continue
			}
			closeRun(next.lineNo - 1)
			break
		}
	}
	if i < len(p.lines) {
		closeRun(p.lines[i].lineNo - 1)
	} else {
		closeRun(p.lines[len(p.lines)-1].lineNo)
	}
	endLine := segments[len(segments)-1].lineNo

	// One diagnostic per maximal run of whitespace-only lines inside the
	// continuation, spanning the first blank line through the start of the
	// line after the last blank.
	for _, run := range blankRuns {
		r := sourcemap.Range{
			Start: sourcemap.Position{Line: run[0], Character: 0},
			End:   sourcemap.Position{Line: run[1] + 1, Character: 0},
		}
		p.doc.Diagnostics = append(p.doc.Diagnostics, diagnostic.New(
			r, diagnostic.SeverityWarning, diagnostic.EmptyContinuationLine,
			"empty continuation line found").WithInstructionLine(startLine))
	}

	inst := p.buildInstruction(segments, startLine, endLine)
	if len(inst.Heredocs) > 0 {
		i = p.consumeHeredocBodies(&inst, i)
	}
	inst.PrecedingComments = p.comments
	p.comments = nil

	for w := range inst.Words {
		inst.Words[w].Expanded = expandVariables(inst.Words[w].Value, p.vars)
	}
	if inst.Keyword == "ARG" || inst.Keyword == "ENV" {
		if p.vars == nil {
			p.vars = map[string]string{}
		}
		recordVariables(&inst, p.vars)
	}

	p.doc.Instructions = append(p.doc.Instructions, inst)
	return i
}

// consumeHeredocBodies reads the literal body lines following a heredoc
// instruction, one heredoc at a time in the order its `<<NAME` tokens
// appeared, stopping each at a line equal to its terminator name.
func (p *parser) consumeHeredocBodies(inst *Instruction, i int) int {
	for h := range inst.Heredocs {
		bodyStart := i
		var body strings.Builder
		terminated := false
		for i < len(p.lines) {
			line := p.lines[i]
			candidate := line.text
			if inst.Heredocs[h].Chomp {
				candidate = strings.TrimLeft(candidate, "\t")
			}
			if candidate == inst.Heredocs[h].Name {
				i++
				terminated = true
				break
			}
			body.WriteString(line.text)
			body.WriteByte('\n')
			i++
		}
		inst.Heredocs[h].Content = body.String()
		bodyEnd := i - 1
		if bodyEnd < bodyStart {
			bodyEnd = bodyStart
		}
		inst.Heredocs[h].BodyRange = sourcemap.Range{
			Start: sourcemap.Position{Line: bodyStart, Character: 0},
			End:   p.lines[min(bodyEnd, len(p.lines)-1)].end(),
		}
		if !terminated {
			p.doc.Diagnostics = append(p.doc.Diagnostics, diagnostic.New(
				inst.Heredocs[h].Range, diagnostic.SeverityError, diagnostic.InvalidSyntax,
				diagnostic.Format("unterminated heredoc ${0}", inst.Heredocs[h].Name)))
		}
		inst.EndLine = i - 1
	}
	inst.Range.End = p.lines[min(inst.EndLine, len(p.lines)-1)].end()
	return i
}

// trimContinuation strips a trailing escape+line-continuation from a
// single physical line, returning the content and whether this line ends
// the logical instruction.
func trimContinuation(line string, escape rune) (string, bool) {
	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	if trimmed == string(escape) {
		return "", false
	}
	if strings.HasSuffix(trimmed, string(escape)) {
		// Not a continuation if the escape itself is escaped.
		withoutEscape := trimmed[:len(trimmed)-1]
		if strings.HasSuffix(withoutEscape, string(escape)) {
			return line, true
		}
		return withoutEscape, false
	}
	return line, true
}

// buildInstruction parses the keyword, flags, and arguments out of the
// joined logical line, producing column-accurate ranges against the
// original (pre-join) physical lines.
func (p *parser) buildInstruction(segments []rawLine, startLine, endLine int) Instruction {
	joined := joinSegments(segments)

	keyword, rest, kwRange := splitKeyword(joined)
	inst := Instruction{
		Keyword:      strings.ToUpper(keyword),
		RawKeyword:   keyword,
		KeywordRange: kwRange,
		StartLine:    startLine,
		EndLine:      endLine,
		Range: sourcemap.Range{
			Start: sourcemap.Position{Line: startLine, Character: 0},
			End:   segments[len(segments)-1].end(),
		},
	}

	flags, rest := consumeFlags(rest)
	inst.Flags = flags

	rest = rest.trimLeadingSpace()
	inst.RawArgsRange = rest.rangeOf(inst.KeywordRange.End)
	inst.RawArgs = strings.TrimSpace(rest.text())

	if looksLikeJSON(inst.RawArgs) {
		inst.JSONForm = true
		inst.Words = decomposeJSON(rest)
	} else {
		inst.Words = splitWords(rest)
	}

	if canHaveHeredoc(inst.Keyword) {
		inst.Heredocs = extractHeredocTokens(inst.Words)
	}

	return inst
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

func canHaveHeredoc(keyword string) bool {
	switch keyword {
	case "RUN", "COPY", "ADD":
		return true
	default:
		return false
	}
}

func looksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

func extractHeredocTokens(words []Word) []Heredoc {
	var docs []Heredoc
	for _, w := range words {
		m := reHeredocTok.FindStringSubmatch(w.Value)
		if m == nil {
			continue
		}
		fd, _ := strconv.ParseUint(m[1], 10, 0)
		chomp := m[2] == "-"
		quoteOpen, quoteClose := m[3], m[5]
		expand := quoteOpen == "" && quoteClose == ""
		docs = append(docs, Heredoc{
			Name:           m[4],
			FileDescriptor: uint(fd),
			Chomp:          chomp,
			Expand:         expand,
			Range:          w.Range,
		})
	}
	return docs
}
