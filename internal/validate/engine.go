// Package validate implements the validator engine: it walks a parsed
// Dockerfile and produces the final, severity-resolved,
// ignore-comment-filtered diagnostic sequence.
package validate

import (
	"strings"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/directive"
	"github.com/wharflab/dockfilelint/internal/settingsio"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

// Validate runs the full validator engine over source and returns the
// accumulated diagnostics in emission order. A nil settings pointer uses
// the built-in defaults.
func Validate(source []byte, settings *settingsio.ValidatorSettings) []diagnostic.Diagnostic {
	v := settingsio.DefaultValidatorSettings()
	if settings != nil {
		v = *settings
	}
	doc := ast.Parse(source)

	c := &checker{doc: doc, sm: doc.SourceMap, settings: v}

	c.foldParseDiagnostics()
	c.checkSourceImage()
	c.checkPerStageMultiples()
	c.checkDuplicateStageNames()
	c.checkInstructions()

	suppressed := directive.SuppressedLines(doc)
	return directive.Filter(c.diags, suppressed)
}

// checker carries the mutable accumulator and shared context through the
// walk. No state survives a single Validate call.
type checker struct {
	doc      *ast.Document
	sm       *sourcemap.SourceMap
	settings settingsio.ValidatorSettings
	diags    []diagnostic.Diagnostic

	// argDefaults records `ARG name=value` defaults seen so far in the
	// walk, so FROM can tell a defined base-image variable from an
	// undefined one.
	argDefaults map[string]string
}

func (c *checker) emit(d diagnostic.Diagnostic) {
	c.diags = append(c.diags, d)
}

// emitRule emits d only if the configured severity for ruleKey is not
// IGNORE, with d's severity overridden to the configured value.
func (c *checker) emitRule(ruleKey string, d diagnostic.Diagnostic) {
	sev := c.settings.Severity(ruleKey)
	if sev == diagnostic.SeverityIgnore {
		return
	}
	c.emit(d.WithSeverity(sev))
}

// foldParseDiagnostics incorporates parser-level findings (duplicated and
// invalid escape directives are always ERROR with no settings key; empty
// continuation lines and directive casing are severity-configurable).
func (c *checker) foldParseDiagnostics() {
	for _, d := range c.doc.Diagnostics {
		switch d.Code {
		case diagnostic.EmptyContinuationLine:
			c.emitRule(settingsio.RuleEmptyContinuationLine, d)
		default:
			c.emit(d)
		}
	}
	if c.doc.Directive.WasPresent && c.doc.Directive.Name != strings.ToLower(c.doc.Directive.Name) {
		c.emitRule(settingsio.RuleDirectiveCasing, diagnostic.New(
			c.doc.Directive.Range, diagnostic.SeverityWarning, diagnostic.CasingDirective,
			diagnostic.Format("directive ${0} should be written in lowercase as ${1}", c.doc.Directive.Name, strings.ToLower(c.doc.Directive.Name))))
	}
}

// checkSourceImage requires that the first non-ARG instruction is FROM.
func (c *checker) checkSourceImage() {
	zero := sourcemap.Range{}
	if len(c.doc.Instructions) == 0 {
		c.emit(diagnostic.New(zero, diagnostic.SeverityError, diagnostic.NoSourceImage, "no source image provided with FROM"))
		return
	}
	onlyArg := true
	for _, inst := range c.doc.Instructions {
		if inst.Keyword != "ARG" {
			onlyArg = false
			break
		}
	}
	if onlyArg {
		c.emit(diagnostic.New(zero, diagnostic.SeverityError, diagnostic.NoSourceImage, "no source image provided with FROM"))
		return
	}
	for _, inst := range c.doc.Instructions {
		if inst.Keyword == "FROM" || inst.Keyword == "ARG" {
			continue
		}
		c.emit(diagnostic.New(inst.KeywordRange, diagnostic.SeverityError, diagnostic.NoSourceImage, "no source image provided with FROM"))
		return
	}
}

// checkPerStageMultiples flags every CMD/ENTRYPOINT/HEALTHCHECK except
// the last of its kind within each build stage.
func (c *checker) checkPerStageMultiples() {
	buckets := map[string][]ast.Instruction{"CMD": nil, "ENTRYPOINT": nil, "HEALTHCHECK": nil}
	ruleKeys := map[string]string{
		"CMD":         settingsio.RuleInstructionCmdMultiple,
		"ENTRYPOINT":  settingsio.RuleInstructionEntrypointMultiple,
		"HEALTHCHECK": settingsio.RuleInstructionHealthcheckMultiple,
	}
	flush := func() {
		for kw, insts := range buckets {
			if len(insts) >= 2 {
				for _, inst := range insts[:len(insts)-1] {
					c.emitRule(ruleKeys[kw], diagnostic.New(
						inst.Range, diagnostic.SeverityWarning, diagnostic.MultipleInstructions,
						diagnostic.Format("multiple ${0} instructions found in a single build stage", kw)).
						WithInstructionLine(inst.StartLine).WithTags(diagnostic.TagUnnecessary))
				}
			}
			buckets[kw] = nil
		}
	}
	for _, inst := range c.doc.Instructions {
		if inst.Keyword == "FROM" {
			flush()
			continue
		}
		if _, ok := buckets[inst.Keyword]; ok {
			buckets[inst.Keyword] = append(buckets[inst.Keyword], inst)
		}
	}
	flush()
}

// checkDuplicateStageNames flags every AS name that occurs more than
// once, compared case-insensitively.
func (c *checker) checkDuplicateStageNames() {
	type occ struct {
		name string
		rng  sourcemap.Range
		line int
	}
	var named []occ
	for _, inst := range c.doc.Instructions {
		if inst.Keyword != "FROM" || len(inst.Words) != 3 {
			continue
		}
		named = append(named, occ{name: strings.ToLower(inst.Words[2].Value), rng: inst.Words[2].Range, line: inst.StartLine})
	}
	counts := map[string]int{}
	for _, o := range named {
		counts[o.name]++
	}
	for _, o := range named {
		if counts[o.name] >= 2 {
			c.emit(diagnostic.New(o.rng, diagnostic.SeverityError, diagnostic.DuplicateBuildStageName,
				diagnostic.Format("duplicate build stage name ${0}", o.name)).WithInstructionLine(o.line))
		}
	}
}

// checkInstructions dispatches each instruction (and ONBUILD's inner
// trigger) by keyword, folding in casing and deprecation checks.
func (c *checker) checkInstructions() {
	for _, inst := range c.doc.Instructions {
		c.checkInstruction(inst)
	}
}

func (c *checker) checkInstruction(inst ast.Instruction) {
	canonical := strings.ToUpper(inst.Keyword)
	if !isKnownKeyword(canonical) {
		c.emit(diagnostic.New(inst.KeywordRange, diagnostic.SeverityError, diagnostic.UnknownInstruction,
			diagnostic.Format("unknown instruction: ${0}", inst.Keyword)).WithInstructionLine(inst.StartLine))
		return
	}

	if inst.RawKeyword != canonical {
		c.emitRule(settingsio.RuleInstructionCasing, diagnostic.New(
			inst.KeywordRange, diagnostic.SeverityWarning, diagnostic.CasingInstruction,
			diagnostic.Format("instruction ${0} should be written in uppercase as ${1}", inst.RawKeyword, canonical)).
			WithInstructionLine(inst.StartLine))
	}

	if canonical == "MAINTAINER" {
		c.emitRule(settingsio.RuleDeprecatedMaintainer, diagnostic.New(
			inst.KeywordRange, diagnostic.SeverityWarning, diagnostic.DeprecatedMaintainer,
			"MAINTAINER has been deprecated").WithInstructionLine(inst.StartLine).WithTags(diagnostic.TagDeprecated))
	}

	switch canonical {
	case "FROM":
		c.checkFrom(inst)
	case "ADD", "COPY":
		c.checkAddCopy(inst)
	case "ARG":
		c.checkArg(inst)
	case "ENV", "LABEL":
		c.checkEnvLabel(inst)
	case "EXPOSE":
		c.checkExpose(inst)
	case "HEALTHCHECK":
		c.checkHealthcheck(inst)
	case "ONBUILD":
		c.checkOnbuild(inst)
	case "SHELL":
		c.checkShell(inst)
	case "STOPSIGNAL":
		c.checkStopSignal(inst)
	case "WORKDIR":
		c.checkWorkdir(inst)
	case "RUN", "CMD", "ENTRYPOINT", "VOLUME":
		c.checkJSONSingleQuotes(inst)
	case "USER", "MAINTAINER":
		c.checkAtLeastOneArg(inst)
	default:
		c.checkAtLeastOneArg(inst)
	}

	// ONBUILD defers the modifier check to its trigger instruction, whose
	// own keyword decides the CMD/ENTRYPOINT/RUN exemption.
	if canonical != "ONBUILD" {
		c.checkVariableModifiers(inst, canonical)
	}
}

var knownKeywords = map[string]bool{
	"FROM": true, "RUN": true, "CMD": true, "LABEL": true, "MAINTAINER": true,
	"EXPOSE": true, "ENV": true, "ADD": true, "COPY": true, "ENTRYPOINT": true,
	"VOLUME": true, "USER": true, "WORKDIR": true, "ARG": true, "ONBUILD": true,
	"STOPSIGNAL": true, "HEALTHCHECK": true, "SHELL": true,
}

func isKnownKeyword(kw string) bool {
	return knownKeywords[kw]
}

func (c *checker) checkAtLeastOneArg(inst ast.Instruction) {
	if len(inst.Words) == 0 {
		c.emit(diagnostic.New(inst.Range, diagnostic.SeverityError, diagnostic.ArgumentRequiresAtLeastOne,
			diagnostic.Format("${0} requires at least one argument", inst.Keyword)).WithInstructionLine(inst.StartLine))
	}
}
