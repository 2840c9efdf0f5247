// Package dockfilelint analyzes Dockerfile source text, producing
// diagnostics for syntactic and semantic problems and whitespace-only
// text edits that normalize continuation-line indentation. Positions use
// zero-based lines and UTF-16 code units for the character axis, so
// ranges line up with an editor view.
//
// All entry points are pure functions of their inputs: they hold no
// state between calls, perform no I/O, and are safe to call concurrently
// on disjoint documents.
package dockfilelint

import (
	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/format"
	"github.com/wharflab/dockfilelint/internal/settingsio"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
	"github.com/wharflab/dockfilelint/internal/validate"
)

// Position is a zero-based line/character location; Character counts
// UTF-16 code units.
type Position = sourcemap.Position

// Range is a half-open-by-column, inclusive-by-line source span.
type Range = sourcemap.Range

// TextEdit replaces the text covered by its range; an empty NewText
// deletes it.
type TextEdit = diagnostic.TextEdit

// Diagnostic is a single validation finding.
type Diagnostic = diagnostic.Diagnostic

// Severity is a diagnostic severity level; SeverityIgnore suppresses
// emission entirely.
type Severity = diagnostic.Severity

// Code is a stable diagnostic identifier.
type Code = diagnostic.Code

const (
	SeverityIgnore  = diagnostic.SeverityIgnore
	SeverityWarning = diagnostic.SeverityWarning
	SeverityError   = diagnostic.SeverityError
)

// ValidatorSettings maps rule keys to configured severities; zero value
// and nil both resolve every rule to its default.
type ValidatorSettings = settingsio.ValidatorSettings

// FormatterSettings configures indentation style for the formatter.
type FormatterSettings = settingsio.FormatterSettings

// Validate analyzes source and returns its diagnostics in emission
// order. A nil settings pointer uses the built-in defaults.
func Validate(source []byte, settings *ValidatorSettings) []Diagnostic {
	return validate.Validate(source, settings)
}

// Format returns the whitespace edits that normalize continuation-line
// indentation and trim blank lines across the whole document.
func Format(source []byte, settings *FormatterSettings) []TextEdit {
	return format.Format(source, settings)
}

// FormatRange is Format limited to the lines overlapping r.
func FormatRange(source []byte, r Range, settings *FormatterSettings) []TextEdit {
	return format.FormatRange(source, r, settings)
}

// FormatOnType returns the edit triggered by typing ch at pos: when ch
// is the active escape character at the end of a line, the next line is
// re-indented as a continuation.
func FormatOnType(source []byte, pos Position, ch string, settings *FormatterSettings) []TextEdit {
	return format.FormatOnType(source, pos, ch, settings)
}
