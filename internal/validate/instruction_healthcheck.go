package validate

import (
	"strconv"
	"strings"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

var healthcheckDurationFlags = map[string]bool{
	"interval": true, "start-period": true, "timeout": true, "start-interval": true,
}

// checkHealthcheck implements the HEALTHCHECK rule sub-engine.
func (c *checker) checkHealthcheck(inst ast.Instruction) {
	seen := map[string][]ast.Flag{}
	for _, f := range inst.Flags {
		seen[f.Name] = append(seen[f.Name], f)
		switch {
		case f.Name == "retries":
			c.checkRetries(inst, f)
		case healthcheckDurationFlags[f.Name]:
			c.checkDurationFlag(inst, f)
		default:
			c.emit(diagnostic.New(f.NameRange, diagnostic.SeverityError, diagnostic.UnknownHealthcheckFlag,
				diagnostic.Format("unknown flag ${0}", "--"+f.Name)).WithInstructionLine(inst.StartLine))
		}
	}
	for name, occs := range seen {
		if len(occs) >= 2 {
			for _, f := range occs {
				c.emit(diagnostic.New(f.Range, diagnostic.SeverityError, diagnostic.FlagDuplicate,
					diagnostic.Format("duplicate flag ${0}", "--"+name)).WithInstructionLine(inst.StartLine))
			}
		}
	}

	if len(inst.Words) == 0 {
		c.emit(diagnostic.New(inst.Range, diagnostic.SeverityError, diagnostic.ArgumentRequiresAtLeastOne,
			"HEALTHCHECK requires at least one argument").WithInstructionLine(inst.StartLine))
		return
	}

	typ := inst.Words[0]
	switch strings.ToUpper(typ.Value) {
	case "NONE":
		if len(inst.Words) > 1 {
			rng := sourcemap.Range{Start: typ.Range.End, End: inst.Words[len(inst.Words)-1].Range.End}
			c.emit(diagnostic.New(rng, diagnostic.SeverityWarning, diagnostic.ArgumentUnnecessary,
				"arguments after NONE are unnecessary").WithInstructionLine(inst.StartLine).WithTags(diagnostic.TagUnnecessary))
		}
	case "CMD":
		if len(inst.Words) < 2 {
			c.emit(diagnostic.New(inst.Range, diagnostic.SeverityError, diagnostic.HealthcheckCmdArgumentMissing,
				"missing command argument after CMD").WithInstructionLine(inst.StartLine))
		}
	default:
		c.emit(diagnostic.New(typ.Range, diagnostic.SeverityError, diagnostic.UnknownType,
			diagnostic.Format("unknown type ${0}", typ.Value)).WithInstructionLine(inst.StartLine))
	}
}

func (c *checker) checkRetries(inst ast.Instruction, f ast.Flag) {
	if !f.HasValue {
		return
	}
	n, err := strconv.Atoi(f.Value)
	if err != nil {
		c.emit(diagnostic.New(f.ValueRange, diagnostic.SeverityError, diagnostic.InvalidSyntax,
			diagnostic.Format("invalid integer value ${0}", f.Value)).WithInstructionLine(inst.StartLine))
		return
	}
	if n < 1 {
		c.emit(diagnostic.New(f.ValueRange, diagnostic.SeverityError, diagnostic.FlagAtLeastOne,
			"retries must be at least 1").WithInstructionLine(inst.StartLine))
	}
}

func (c *checker) checkDurationFlag(inst ast.Instruction, f ast.Flag) {
	if !f.HasValue {
		c.emit(diagnostic.New(f.Range, diagnostic.SeverityError, diagnostic.FlagMissingValue,
			diagnostic.Format("flag ${0} requires a value", "--"+f.Name)).WithInstructionLine(inst.StartLine))
		return
	}
	code, bad := parseDuration(f.Value)
	if bad {
		c.emit(diagnostic.New(f.ValueRange, diagnostic.SeverityError, code,
			diagnostic.Format("invalid duration ${0}", f.Value)).WithInstructionLine(inst.StartLine))
	}
}
