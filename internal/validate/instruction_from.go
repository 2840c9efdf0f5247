package validate

import (
	"regexp"
	"strings"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

var (
	reImageTag     = regexp.MustCompile(`^[\w][\w.\-]{0,127}$`)
	reDigestAlgo   = regexp.MustCompile(`[A-Fa-f0-9_+.\-]+`)
	reDigestHex    = regexp.MustCompile(`[A-Fa-f0-9]+`)
	reBuildStageID = regexp.MustCompile(`^[a-z]([a-z0-9_\-.]*)*$`)
	// A `${VAR:-word}` / `${VAR:+word}` reference supplies its own
	// fallback, so the base name cannot be empty.
	reInlineDefault = regexp.MustCompile(`^\$\{[^}]*:[-+][^}]+\}$`)
)

// checkFrom validates the FROM instruction: argument shape, image
// reference format, AS clause, stage name, and flags.
func (c *checker) checkFrom(inst ast.Instruction) {
	for _, f := range inst.Flags {
		switch f.Name {
		case "platform":
			if !f.HasValue {
				c.emit(diagnostic.New(f.Range, diagnostic.SeverityError, diagnostic.FlagMissingValue,
					diagnostic.Format("flag ${0} requires a value", "--"+f.Name)).WithInstructionLine(inst.StartLine))
			}
		default:
			c.emit(diagnostic.New(f.NameRange, diagnostic.SeverityError, diagnostic.UnknownFromFlag,
				diagnostic.Format("unknown flag ${0}", "--"+f.Name)).WithInstructionLine(inst.StartLine))
		}
	}

	n := len(inst.Words)
	if n != 1 && n != 3 {
		rng := inst.Range
		if n > 1 {
			// The trailing arguments beyond the accepted shape.
			from := 1
			if n > 3 {
				from = 3
			}
			rng = sourcemap.Range{Start: inst.Words[from].Range.Start, End: inst.Words[n-1].Range.End}
		}
		c.emit(diagnostic.New(rng, diagnostic.SeverityError, diagnostic.ArgumentRequiresOneOrThree,
			"FROM requires either one argument, or three arguments with the second being AS").WithInstructionLine(inst.StartLine))
		if n == 0 {
			return
		}
	}

	image := inst.Words[0]
	if isSoleVariableReference(image.Value) {
		if c.argDefaults[soleVariableName(image.Value)] == "" && !reInlineDefault.MatchString(image.Value) {
			c.emit(diagnostic.New(image.Range, diagnostic.SeverityError, diagnostic.BaseNameEmpty,
				"base name is empty").WithInstructionLine(inst.StartLine))
		}
	} else {
		checkImageReference(c, inst, image)
	}

	if n >= 3 {
		if !strings.EqualFold(inst.Words[1].Value, "AS") {
			c.emit(diagnostic.New(inst.Words[1].Range, diagnostic.SeverityError, diagnostic.InvalidAs,
				"expected AS").WithInstructionLine(inst.StartLine))
		}
		stage := inst.Words[2]
		lower := strings.ToLower(stage.Value)
		if !reBuildStageID.MatchString(lower) {
			c.emit(diagnostic.New(stage.Range, diagnostic.SeverityError, diagnostic.InvalidBuildStageName,
				diagnostic.Format("invalid build stage name ${0}", stage.Value)).WithInstructionLine(inst.StartLine))
		}
	}
}

// checkImageReference validates an image reference's tag or digest,
// reporting on the tag/digest sub-range when it is non-empty and on the
// whole image argument when it is empty.
func checkImageReference(c *checker, inst ast.Instruction, image ast.Word) {
	ref := image.Value
	if at := strings.IndexByte(ref, '@'); at >= 0 {
		digest := ref[at+1:]
		colon := strings.IndexByte(digest, ':')
		// The digest patterns are unanchored: each part is accepted when
		// it contains a match.
		valid := colon > 0 && reDigestAlgo.MatchString(digest[:colon]) && reDigestHex.MatchString(digest[colon+1:])
		if !valid {
			rng := image.Range
			if digest != "" {
				rng = subRange(image, at+1, len(ref))
			}
			c.emit(diagnostic.New(rng, diagnostic.SeverityError, diagnostic.InvalidReferenceFormat,
				diagnostic.Format("invalid reference format: ${0}", ref)).WithInstructionLine(inst.StartLine))
		}
		return
	}
	colon := strings.LastIndexByte(ref, ':')
	if colon < 0 {
		return
	}
	tag := ref[colon+1:]
	if !reImageTag.MatchString(tag) {
		rng := image.Range
		if tag != "" {
			rng = subRange(image, colon+1, len(ref))
		}
		c.emit(diagnostic.New(rng, diagnostic.SeverityError, diagnostic.InvalidReferenceFormat,
			diagnostic.Format("invalid reference format: ${0}", ref)).WithInstructionLine(inst.StartLine))
	}
}

// soleVariableName extracts the variable name from a sole `${NAME...}` or
// `$NAME` reference.
func soleVariableName(s string) string {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "{")
	end := 0
	for end < len(s) {
		r := s[end]
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			end++
			continue
		}
		break
	}
	return s[:end]
}

// isSoleVariableReference reports whether s is entirely one
// ${...}/$VAR variable reference with nothing else around it.
func isSoleVariableReference(s string) bool {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return strings.Count(s, "${") == 1
	}
	if strings.HasPrefix(s, "$") && len(s) > 1 {
		rest := s[1:]
		for _, r := range rest {
			if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
				return false
			}
		}
		return true
	}
	return false
}
