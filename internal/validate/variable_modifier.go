package validate

import (
	"regexp"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

var reBracedVariable = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:(.*?))?\}`)

// checkVariableModifiers requires every `${VAR:modifier}` occurrence
// outside CMD/ENTRYPOINT/RUN (which pass shell expansions through) to
// use an explicit modifier of exactly +, -, or ?.
func (c *checker) checkVariableModifiers(inst ast.Instruction, canonical string) {
	switch canonical {
	case "CMD", "ENTRYPOINT", "RUN":
		return
	}
	text := inst.RawArgs
	singleLine := inst.StartLine == inst.EndLine

	for _, m := range reBracedVariable.FindAllStringSubmatchIndex(text, -1) {
		hasColon := m[4] >= 0
		if !hasColon {
			continue
		}
		modStart, modEnd := m[6], m[7]
		if modStart == modEnd {
			c.emit(c.variableModifierDiag(inst, singleLine, m[0], m[1], "variable modifier must not be empty"))
			continue
		}
		// The modifier is the single character after the colon; anything
		// following it is the substitution word.
		modifier := text[modStart : modStart+1]
		if modifier != "+" && modifier != "-" && modifier != "?" {
			c.emit(c.variableModifierDiag(inst, singleLine, modStart, modStart+1,
				diagnostic.Format("unsupported variable modifier ${0}", modifier)))
		}
	}
}

func (c *checker) variableModifierDiag(inst ast.Instruction, singleLine bool, from, to int, message string) diagnostic.Diagnostic {
	rng := inst.RawArgsRange
	if singleLine {
		rng = sourcemap.Range{
			Start: sourcemap.Position{Line: inst.RawArgsRange.Start.Line, Character: inst.RawArgsRange.Start.Character + from},
			End:   sourcemap.Position{Line: inst.RawArgsRange.Start.Line, Character: inst.RawArgsRange.Start.Character + to},
		}
	}
	return diagnostic.New(rng, diagnostic.SeverityWarning, diagnostic.UnsupportedModifier, message).WithInstructionLine(inst.StartLine)
}
