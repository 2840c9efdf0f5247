package validate

import (
	"regexp"
	"strings"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

var addFlags = map[string]bool{"chmod": true, "chown": true, "checksum": true, "keep-git-dir": true, "link": true}
var copyFlags = map[string]bool{"chmod": true, "chown": true, "from": true, "link": true}
var booleanFlags = map[string]bool{"keep-git-dir": true, "link": true}

var reFromFlagValue = regexp.MustCompile(`^[a-zA-Z0-9].*$`)

// checkAddCopy implements the ADD/COPY rule sub-engine.
func (c *checker) checkAddCopy(inst ast.Instruction) {
	allowed := addFlags
	unknownCode := diagnostic.UnknownAddFlag
	if inst.Keyword == "COPY" {
		allowed = copyFlags
		unknownCode = diagnostic.UnknownCopyFlag
	}

	seen := map[string][]ast.Flag{}
	for _, f := range inst.Flags {
		seen[f.Name] = append(seen[f.Name], f)
		if !allowed[f.Name] {
			c.emit(diagnostic.New(f.NameRange, diagnostic.SeverityError, unknownCode,
				diagnostic.Format("unknown flag ${0}", "--"+f.Name)).WithInstructionLine(inst.StartLine))
			continue
		}
		if f.Name == "from" {
			if !f.HasValue || !reFromFlagValue.MatchString(f.Value) {
				c.emit(diagnostic.New(f.ValueRange, diagnostic.SeverityError, diagnostic.FlagInvalidFromValue,
					diagnostic.Format("invalid from value ${0}", f.Value)).WithInstructionLine(inst.StartLine))
			}
		}
		if booleanFlags[f.Name] && f.HasValue {
			v := strings.ToLower(f.Value)
			if v != "true" && v != "false" {
				c.emit(diagnostic.New(f.ValueRange, diagnostic.SeverityError, diagnostic.FlagExpectedBooleanValue,
					diagnostic.Format("expected a boolean value for ${0}", "--"+f.Name)).WithInstructionLine(inst.StartLine))
			}
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

	minArgs := 2
	if len(inst.Words) < minArgs && len(inst.Heredocs) == 0 {
		c.emit(diagnostic.New(inst.Range, diagnostic.SeverityError, diagnostic.ArgumentRequiresAtLeastTwo,
			diagnostic.Format("${0} requires at least two arguments", inst.Keyword)).WithInstructionLine(inst.StartLine))
	}

	if len(inst.Heredocs) > 0 || len(inst.Words) <= minArgs {
		c.checkJSONSingleQuotes(inst)
		return
	}

	last := inst.Words[len(inst.Words)-1]
	if strings.HasSuffix(last.Value, "/") || strings.HasSuffix(last.Value, "\\") {
		c.checkJSONSingleQuotes(inst)
		return
	}
	if destinationAbutsVariable(last) {
		c.checkJSONSingleQuotes(inst)
		return
	}
	c.emit(diagnostic.New(last.Range, diagnostic.SeverityError, diagnostic.InvalidDestination,
		diagnostic.Format("${0} destination directory should end with a slash", inst.Keyword)).WithInstructionLine(inst.StartLine))

	c.checkJSONSingleQuotes(inst)
}

var reVariableOccurrence = regexp.MustCompile(`\$\{[^}]*\}|\$[A-Za-z_][A-Za-z0-9_]*`)

// destinationAbutsVariable reports whether the destination argument ends
// in a variable occurrence, which may expand to include a trailing
// separator. Both offset relations are checked: the variable's end may
// equal the argument's end, or fall exactly one short of it (quoted
// string ranges include the closing quote).
func destinationAbutsVariable(dest ast.Word) bool {
	matches := reVariableOccurrence.FindAllStringIndex(dest.Value, -1)
	if len(matches) == 0 {
		return false
	}
	lastVarEnd := matches[len(matches)-1][1]
	lastArgEnd := len(dest.Value)
	return lastArgEnd == lastVarEnd || lastArgEnd-1 == lastVarEnd
}
