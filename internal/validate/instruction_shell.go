package validate

import (
	"strings"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

// checkShell implements the SHELL rule sub-engine: arguments must be a
// JSON-form list of double-quoted strings with no non-standard escapes.
func (c *checker) checkShell(inst ast.Instruction) {
	if !inst.JSONForm {
		c.emit(diagnostic.New(inst.RawArgsRange, diagnostic.SeverityError, diagnostic.ShellJSONForm,
			"SHELL requires the exec form").WithInstructionLine(inst.StartLine))
		return
	}
	if len(inst.Words) == 0 {
		inner := strings.TrimSpace(strings.Trim(strings.TrimSpace(inst.RawArgs), "[]"))
		code := diagnostic.ShellRequiresOne
		msg := "SHELL requires at least one argument"
		if inner != "" {
			// Non-empty brackets that decomposed to nothing: the list is
			// not valid JSON (bad quoting or a stray escape).
			code = diagnostic.ShellJSONForm
			msg = "SHELL requires the exec form"
		}
		c.emit(diagnostic.New(inst.RawArgsRange, diagnostic.SeverityError, code, msg).WithInstructionLine(inst.StartLine))
		return
	}
	for _, w := range inst.Words {
		if hasNonStandardEscape(w.Value) {
			c.emit(diagnostic.New(w.Range, diagnostic.SeverityError, diagnostic.ShellJSONForm,
				"unescaped backslash in SHELL argument").WithInstructionLine(inst.StartLine))
		}
	}
}

// hasNonStandardEscape reports a `\` followed by whitespace or nothing.
// A `\` before a letter passes through JSON decoding unchanged and is
// accepted; backslash-space is flagged.
func hasNonStandardEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		if i+1 >= len(s) {
			return true
		}
		next := s[i+1]
		if next == '"' || next == '\\' {
			i++
			continue
		}
		if next == ' ' || next == '\t' {
			return true
		}
		i++
	}
	return false
}
