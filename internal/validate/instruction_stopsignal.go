package validate

import (
	"strings"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

// checkStopSignal implements the STOPSIGNAL rule sub-engine.
func (c *checker) checkStopSignal(inst ast.Instruction) {
	if len(inst.Words) != 1 {
		c.emit(diagnostic.New(inst.Range, diagnostic.SeverityError, diagnostic.ArgumentRequiresOne,
			"STOPSIGNAL requires exactly one argument").WithInstructionLine(inst.StartLine))
		return
	}
	arg := inst.Words[0]
	if isValidStopSignal(arg.Value) {
		return
	}
	c.emit(diagnostic.New(arg.Range, diagnostic.SeverityError, diagnostic.InvalidSignal,
		diagnostic.Format("invalid signal: ${0}", arg.Value)).WithInstructionLine(inst.StartLine))
}

func isValidStopSignal(s string) bool {
	if strings.HasPrefix(s, "SIG") {
		return true
	}
	if strings.Contains(s, "$") {
		return true
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
