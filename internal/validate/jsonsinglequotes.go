package validate

import (
	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/settingsio"
)

// checkJSONSingleQuotes scans an instruction's raw argument text for the
// `['a', 'b']`-shaped mistake (JSON exec form written with single quotes
// instead of double quotes) and reports JSON_IN_SINGLE_QUOTES when found.
func (c *checker) checkJSONSingleQuotes(inst ast.Instruction) {
	if looksLikeJSONInSingleQuotes(inst.RawArgs) {
		c.emitRule(settingsio.RuleInstructionJSONInSingleQuotes, diagnostic.New(
			inst.RawArgsRange, diagnostic.SeverityWarning, diagnostic.JSONInSingleQuotes,
			"instruction has JSON args with single quotes").WithInstructionLine(inst.StartLine))
	}
}

// looksLikeJSONInSingleQuotes is a micro state machine over `[`, `]`,
// `,`, `'`, whitespace, and other. Any structural deviation aborts
// without a match.
func looksLikeJSONInSingleQuotes(text string) bool {
	i := 0
	n := len(text)
	skipSpace := func() {
		for i < n && (text[i] == ' ' || text[i] == '\t') {
			i++
		}
	}
	skipSpace()
	if i >= n || text[i] != '[' {
		return false
	}
	i++
	skipSpace()
	if i < n && text[i] == ']' {
		return false
	}
	first := true
	for {
		skipSpace()
		if !first {
			if i >= n || text[i] != ',' {
				return false
			}
			i++
			skipSpace()
		}
		first = false
		if i >= n || text[i] != '\'' {
			return false
		}
		i++
		for i < n && text[i] != '\'' {
			i++
		}
		if i >= n {
			return false
		}
		i++
		skipSpace()
		if i < n && text[i] == ']' {
			i++
			break
		}
		if i >= n || text[i] != ',' {
			return false
		}
	}
	skipSpace()
	return i == n
}
