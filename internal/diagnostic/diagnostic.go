package diagnostic

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

// Source is the fixed value of Diagnostic.Source across every emitted
// diagnostic.
const Source = "dockerfile-utils"

// Tag is a supplementary classification attached to a diagnostic (for
// example, marking a diagnostic as unnecessary/deprecated so editors can
// render it with strikethrough). The set is open-ended on purpose: unlike
// Code, tags are advisory and additive.
type Tag int

const (
	// TagUnnecessary marks a diagnostic about code that has no effect.
	TagUnnecessary Tag = iota + 1
	// TagDeprecated marks a diagnostic about deprecated usage.
	TagDeprecated
)

// TextEdit is a single replacement of the text covered by Range with
// NewText. An empty NewText deletes the covered range; a zero-width
// Range (Start == End) inserts NewText without removing anything.
type TextEdit struct {
	Range   sourcemap.Range `json:"range"`
	NewText string          `json:"newText"`
}

// noInstructionLine is the sentinel stored when a Diagnostic has no
// associated instruction line (directive-level and document-level
// diagnostics).
const noInstructionLine = -1

// Diagnostic is a single validation finding. Severity is always the
// effective, non-ignore severity: callers that compute SeverityIgnore for
// a would-be diagnostic must drop it instead of constructing one.
type Diagnostic struct {
	Range    sourcemap.Range
	Severity Severity
	Code     Code
	Message  string
	// Source is always Source; included on the wire for editor-protocol
	// compatibility.
	Source string
	// instructionLine holds the zero-based line of the instruction this
	// diagnostic was raised against, or noInstructionLine when not
	// applicable.
	instructionLine int
	Tags            []Tag
}

// wireDiagnostic is the serialized form: severity uses the editor-protocol
// convention (1=Error, 2=Warning) and instructionLine is null when the
// diagnostic has no owning instruction.
type wireDiagnostic struct {
	Range           sourcemap.Range `json:"range"`
	Severity        WireSeverity    `json:"severity"`
	Code            int             `json:"code"`
	Source          string          `json:"source"`
	Message         string          `json:"message"`
	Tags            []Tag           `json:"tags,omitempty"`
	InstructionLine *int            `json:"instructionLine"`
}

// MarshalJSON implements json.Marshaler.
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	w := wireDiagnostic{
		Range:    d.Range,
		Severity: d.Severity.Wire(),
		Code:     int(d.Code),
		Source:   d.Source,
		Message:  d.Message,
		Tags:     d.Tags,
	}
	if line, ok := d.InstructionLine(); ok {
		w.InstructionLine = &line
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Diagnostic) UnmarshalJSON(data []byte) error {
	var w wireDiagnostic
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = Diagnostic{
		Range:           w.Range,
		Code:            Code(w.Code),
		Source:          w.Source,
		Message:         w.Message,
		Tags:            w.Tags,
		instructionLine: noInstructionLine,
	}
	switch w.Severity {
	case WireError:
		d.Severity = SeverityError
	case WireWarning:
		d.Severity = SeverityWarning
	default:
		return fmt.Errorf("diagnostic: unknown wire severity %d", w.Severity)
	}
	if w.InstructionLine != nil {
		d.instructionLine = *w.InstructionLine
	}
	return nil
}

// New constructs a Diagnostic at the given range with the given severity,
// code and formatted message. Panics if severity is SeverityIgnore: an
// ignored diagnostic must never be constructed.
func New(r sourcemap.Range, severity Severity, code Code, message string) Diagnostic {
	if severity == SeverityIgnore {
		panic("diagnostic: New called with SeverityIgnore")
	}
	return Diagnostic{
		Range:           r,
		Severity:        severity,
		Code:            code,
		Message:         message,
		Source:          Source,
		instructionLine: noInstructionLine,
	}
}

// WithInstructionLine returns a copy of d with its instruction-line
// back-reference set. Used by the validator so an ignore-comment on the
// line above an instruction can suppress diagnostics raised against
// sub-ranges (flags, arguments) of that instruction.
func (d Diagnostic) WithInstructionLine(line int) Diagnostic {
	d.instructionLine = line
	return d
}

// InstructionLine returns the instruction line this diagnostic is
// associated with, and false if it has none.
func (d Diagnostic) InstructionLine() (int, bool) {
	if d.instructionLine < 0 {
		return 0, false
	}
	return d.instructionLine, true
}

// WithSeverity returns a copy of d with its severity overridden to s. Used
// by the validator to apply a user-configured severity to a rule's
// otherwise-fixed diagnostic. Panics if s is SeverityIgnore: callers must
// drop the diagnostic instead.
func (d Diagnostic) WithSeverity(s Severity) Diagnostic {
	if s == SeverityIgnore {
		panic("diagnostic: WithSeverity called with SeverityIgnore")
	}
	d.Severity = s
	return d
}

// WithTags returns a copy of d with the given tags appended.
func (d Diagnostic) WithTags(tags ...Tag) Diagnostic {
	d.Tags = append(append([]Tag(nil), d.Tags...), tags...)
	return d
}

// Format renders a message template, substituting ${0}, ${1}, ... with
// args in order. Unknown placeholders are left verbatim so a
// template/argument-count mismatch is visible rather than silently
// swallowed.
func Format(template string, args ...any) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		if template[i] == '$' && i+1 < len(template) && template[i+1] == '{' {
			end := strings.IndexByte(template[i+2:], '}')
			if end >= 0 {
				idxStr := template[i+2 : i+2+end]
				if idx, err := strconv.Atoi(idxStr); err == nil && idx >= 0 && idx < len(args) {
					fmt.Fprintf(&b, "%v", args[idx])
					i += 2 + end
					continue
				}
			}
		}
		b.WriteByte(template[i])
	}
	return b.String()
}
