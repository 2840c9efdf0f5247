package validate

import (
	"strings"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

// checkArg implements the ARG rule sub-engine.
func (c *checker) checkArg(inst ast.Instruction) {
	if len(inst.Words) == 0 {
		c.emit(diagnostic.New(inst.Range, diagnostic.SeverityError, diagnostic.ArgumentRequiresAtLeastOne,
			"ARG requires at least one argument").WithInstructionLine(inst.StartLine))
		return
	}
	for i, w := range inst.Words {
		c.checkPropertyShape(inst, w, i == 0, "ARG")
		if eq := indexUnquotedEquals(w.Value); eq >= 0 {
			if c.argDefaults == nil {
				c.argDefaults = map[string]string{}
			}
			c.argDefaults[w.Value[:eq]] = stripOneQuoteLayer(w.Value[eq+1:])
		}
	}
}

// checkEnvLabel implements the ENV/LABEL rule sub-engine.
func (c *checker) checkEnvLabel(inst ast.Instruction) {
	if len(inst.Words) == 0 {
		c.emit(diagnostic.New(inst.Range, diagnostic.SeverityError, diagnostic.ArgumentRequiresAtLeastOne,
			diagnostic.Format("${0} requires at least one argument", inst.Keyword)).WithInstructionLine(inst.StartLine))
		return
	}
	for i, w := range inst.Words {
		c.checkPropertyShape(inst, w, i == 0, inst.Keyword)
	}
}

// checkPropertyShape validates a single `key[=value]` property token.
func (c *checker) checkPropertyShape(inst ast.Instruction, w ast.Word, isFirst bool, keyword string) {
	text := w.Value
	eq := indexUnquotedEquals(text)
	if eq < 0 {
		if text == "" {
			c.emit(diagnostic.New(w.Range, diagnostic.SeverityError, diagnostic.SyntaxMissingNames,
				"missing names").WithInstructionLine(inst.StartLine))
			return
		}
		if isFirst {
			if keyword == "ENV" {
				c.emit(diagnostic.New(w.Range, diagnostic.SeverityError, diagnostic.ArgumentRequiresTwo,
					"ENV must have two arguments").WithInstructionLine(inst.StartLine))
			}
			return
		}
		c.emit(diagnostic.New(w.Range, diagnostic.SeverityError, diagnostic.SyntaxMissingEquals,
			"syntax error - must have an = sign").WithInstructionLine(inst.StartLine))
		return
	}

	key := text[:eq]
	if key == "" {
		c.emit(diagnostic.New(w.Range, diagnostic.SeverityError, diagnostic.SyntaxMissingNames,
			"missing names").WithInstructionLine(inst.StartLine))
		return
	}
	escape := byte(c.doc.Directive.Escape)
	if quoteErr := checkQuotedSpan(key, escape); quoteErr != diagnostic.Code(0) {
		c.emit(diagnostic.New(w.Range, diagnostic.SeverityError, quoteErr, "unterminated quoted string").WithInstructionLine(inst.StartLine))
		return
	}

	value := text[eq+1:]
	if quoteErr := checkQuotedSpan(value, escape); quoteErr != diagnostic.Code(0) {
		c.emit(diagnostic.New(w.Range, diagnostic.SeverityError, quoteErr, "unterminated quoted string").WithInstructionLine(inst.StartLine))
	}
}

// indexUnquotedEquals finds the first '=' not inside a quoted span.
func indexUnquotedEquals(s string) int {
	var quote rune
	for i, r := range s {
		if quote != 0 {
			if r == quote {
				quote = 0
			}
			continue
		}
		if r == '\'' || r == '"' {
			quote = r
			continue
		}
		if r == '=' {
			return i
		}
	}
	return -1
}

// checkQuotedSpan reports a missing-close-quote code when s begins with
// a quote character but does not properly close it. The active escape
// character skips the next character inside double-quoted spans.
func checkQuotedSpan(s string, escape byte) diagnostic.Code {
	if s == "" {
		return 0
	}
	switch s[0] {
	case '\'':
		if !strings.HasSuffix(s, "'") || len(s) == 1 {
			return diagnostic.SyntaxMissingSingleQuote
		}
	case '"':
		i := 1
		closed := false
		for i < len(s) {
			switch s[i] {
			case escape:
				i += 2
				continue
			case '"':
				closed = i == len(s)-1
			}
			i++
		}
		if !closed {
			return diagnostic.SyntaxMissingDoubleQuote
		}
	}
	return 0
}
