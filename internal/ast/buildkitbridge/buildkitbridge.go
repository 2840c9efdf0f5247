// Package buildkitbridge converts an already-parsed
// github.com/moby/buildkit/frontend/dockerfile/parser.Result into this
// module's ast.Document, for callers that already depend on BuildKit's
// own Dockerfile parser and would rather not parse the source twice.
//
// The bridge is explicitly coarser than ast.Parse: BuildKit's parser.Node
// only carries whole-line (StartLine/EndLine) position information, so
// every sub-range this package produces (keyword, words, flags) covers
// the instruction's full line span rather than the precise column the
// native adapter computes. Callers that need column-accurate diagnostics
// or formatter edits should parse with ast.Parse instead.
package buildkitbridge

import (
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

// FromResult converts a BuildKit parser.Result plus the original source
// bytes (needed to build the Coordinate & Text Facade) into an
// ast.Document.
func FromResult(source []byte, result *parser.Result) *ast.Document {
	sm := sourcemap.New(source)
	doc := &ast.Document{SourceMap: sm, Directive: ast.Directive{Escape: ast.DefaultEscape}}
	if result == nil || result.AST == nil {
		return doc
	}
	if result.EscapeToken != 0 {
		doc.Directive.Escape = result.EscapeToken
		// BuildKit reports the active escape token whether or not a
		// directive set it, so only a non-default token proves a
		// directive was written.
		doc.Directive.WasPresent = result.EscapeToken != ast.DefaultEscape
	}

	for _, node := range result.AST.Children {
		doc.Instructions = append(doc.Instructions, fromNode(sm, node))
	}
	return doc
}

func fromNode(sm *sourcemap.SourceMap, node *parser.Node) ast.Instruction {
	keyword := strings.ToUpper(node.Value)
	startLine := node.StartLine - 1
	endLine := node.EndLine - 1
	if startLine < 0 {
		startLine = 0
	}
	if endLine < startLine {
		endLine = startLine
	}

	lineRange := func(line int) sourcemap.Range {
		return sourcemap.Range{
			Start: sourcemap.Position{Line: line, Character: 0},
			End:   sourcemap.Position{Line: line, Character: utf16Len(sm.Line(line))},
		}
	}

	inst := ast.Instruction{
		Keyword:      keyword,
		RawKeyword:   node.Value,
		KeywordRange: lineRange(startLine),
		Range: sourcemap.Range{
			Start: sourcemap.Position{Line: startLine, Character: 0},
			End:   lineRange(endLine).End,
		},
		StartLine: startLine,
		EndLine:   endLine,
	}

	for _, f := range node.Flags {
		inst.Flags = append(inst.Flags, flagFromString(f, inst.Range))
	}

	for n := node.Next; n != nil; n = n.Next {
		inst.Words = append(inst.Words, ast.Word{Value: n.Value, Expanded: n.Value, Range: inst.Range})
	}

	if len(node.PrevComment) > 0 {
		inst.PrecedingComments = append(inst.PrecedingComments, node.PrevComment...)
	}

	return inst
}

// flagFromString decomposes a raw "--name" / "--name=value" flag token.
// BuildKit does not report the flag's own column, so NameRange/ValueRange
// fall back to the whole instruction's range.
func flagFromString(raw string, fallback sourcemap.Range) ast.Flag {
	body := strings.TrimPrefix(raw, "--")
	if idx := strings.IndexByte(body, '='); idx >= 0 {
		return ast.Flag{
			Name: body[:idx], Value: body[idx+1:], HasValue: true,
			NameRange: fallback, ValueRange: fallback, Range: fallback,
		}
	}
	return ast.Flag{Name: body, NameRange: fallback, Range: fallback}
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
