package validate

import (
	"regexp"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/settingsio"
)

var reDriveOrVariableRooted = regexp.MustCompile(`^(\$|([a-zA-Z](\$|:(\$|\\|/)))).*$`)

// checkWorkdir implements the WORKDIR rule sub-engine.
func (c *checker) checkWorkdir(inst ast.Instruction) {
	if len(inst.Words) == 0 {
		c.emit(diagnostic.New(inst.Range, diagnostic.SeverityError, diagnostic.ArgumentRequiresAtLeastOne,
			"WORKDIR requires at least one argument").WithInstructionLine(inst.StartLine))
		return
	}
	path := stripOneQuoteLayer(inst.Words[0].Value)
	if len(path) > 0 && path[0] == '/' {
		return
	}
	if reDriveOrVariableRooted.MatchString(path) {
		return
	}
	c.emitRule(settingsio.RuleInstructionWorkdirRelative, diagnostic.New(
		inst.Words[0].Range, diagnostic.SeverityWarning, diagnostic.WorkdirIsNotAbsolute,
		diagnostic.Format("relative WORKDIR ${0} is not portable", path)).WithInstructionLine(inst.StartLine))
}

func stripOneQuoteLayer(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
