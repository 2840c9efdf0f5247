// Package diagnostic provides the diagnostic model: severities, stable
// error codes, message templates with positional parameters, and
// diagnostic records carrying a source range and an optional
// instruction-line back-reference.
package diagnostic

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is the effective severity of a diagnostic. IGNORE suppresses
// emission entirely; it is never present on an emitted Diagnostic.
//
//nolint:recvcheck // UnmarshalJSON requires a pointer receiver.
type Severity int

const (
	// SeverityIgnore suppresses the diagnostic entirely.
	SeverityIgnore Severity = iota
	// SeverityWarning is a non-fatal issue.
	SeverityWarning
	// SeverityError is a build-breaking or specification-violating issue.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityIgnore:
		return "ignore"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so configuration
// decoders (TOML, environment) can read severities written as strings.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses a severity string (case-insensitive).
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore", "off":
		return SeverityIgnore, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityIgnore, fmt.Errorf("diagnostic: unknown severity %q", s)
	}
}

// WireSeverity is the editor-protocol convention used on the wire:
// 1=Error, 2=Warning. IGNORE diagnostics are never serialized, so there
// is no wire value for it.
type WireSeverity int

const (
	WireError   WireSeverity = 1
	WireWarning WireSeverity = 2
)

// Wire converts an effective (non-ignore) Severity to its wire value.
// Panics if called on SeverityIgnore, since an ignored diagnostic must
// never reach serialization.
func (s Severity) Wire() WireSeverity {
	switch s {
	case SeverityError:
		return WireError
	case SeverityWarning:
		return WireWarning
	default:
		panic("diagnostic: Wire() called on a non-emittable severity")
	}
}
