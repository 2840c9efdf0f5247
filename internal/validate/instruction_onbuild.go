package validate

import (
	"strings"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

// checkOnbuild implements the ONBUILD rule sub-engine. The trigger
// instruction is parsed out of ONBUILD's own raw argument text and
// recursively dispatched, except FROM/MAINTAINER/ONBUILD triggers, which
// are rejected outright.
func (c *checker) checkOnbuild(inst ast.Instruction) {
	if len(inst.Words) == 0 {
		c.emit(diagnostic.New(inst.Range, diagnostic.SeverityError, diagnostic.ArgumentRequiresAtLeastOne,
			"ONBUILD requires at least one argument").WithInstructionLine(inst.StartLine))
		return
	}

	trigger := inst.Words[0]
	keyword := strings.ToUpper(trigger.Value)
	switch keyword {
	case "FROM", "MAINTAINER":
		c.emit(diagnostic.New(trigger.Range, diagnostic.SeverityError, diagnostic.OnbuildTriggerDisallowed,
			diagnostic.Format("${0} is not allowed as an ONBUILD trigger", keyword)).WithInstructionLine(inst.StartLine))
		return
	case "ONBUILD":
		c.emit(diagnostic.New(trigger.Range, diagnostic.SeverityError, diagnostic.OnbuildChainingDisallowed,
			"chaining ONBUILD instructions is not allowed").WithInstructionLine(inst.StartLine))
		return
	}

	triggerInst := triggerInstruction(inst)
	c.checkInstruction(triggerInst)
}

// triggerInstruction builds a synthetic Instruction for ONBUILD's inner
// triggered instruction out of the outer instruction's already-decomposed
// words. The trigger gets no Flags: a `--flag` after the trigger keyword
// stays among its Words.
func triggerInstruction(outer ast.Instruction) ast.Instruction {
	words := outer.Words[1:]
	inner := ast.Instruction{
		Keyword:          strings.ToUpper(outer.Words[0].Value),
		RawKeyword:       outer.Words[0].Value,
		KeywordRange:     outer.Words[0].Range,
		Range:            outer.Range,
		StartLine:        outer.StartLine,
		EndLine:          outer.EndLine,
		Words:            words,
		IsOnbuildTrigger: true,
	}
	if len(words) > 0 {
		inner.RawArgsRange.Start = words[0].Range.Start
		inner.RawArgsRange.End = words[len(words)-1].Range.End
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = w.Value
		}
		inner.RawArgs = strings.Join(parts, " ")
	}
	return inner
}
