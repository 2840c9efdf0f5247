// The text formatter is adapted from BuildKit's linter output format,
// using plain ANSI SGR escapes and isatty terminal detection for color.

package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

// ANSI SGR escape sequences for the styles this reporter applies.
const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1m"
	ansiErrorFg   = "\x1b[31m" // red
	ansiWarningFg = "\x1b[33m" // yellow
	ansiMessageFg = "\x1b[37m" // white
	ansiFileLocFg = "\x1b[90m" // bright black
	ansiLineNumFg = "\x1b[90m"
	ansiSepFg     = "\x1b[90m"
	ansiMarkerFg  = "\x1b[1;31m" // bold red
)

// stdoutIsTerminal reports whether stdout is attached to a terminal,
// honoring NO_COLOR (https://no-color.org) before asking isatty.
func stdoutIsTerminal() bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// ShowSource shows source code snippets. Default: true.
	ShowSource bool

	// Writer is where Report writes to; Print still accepts an explicit
	// writer for direct callers.
	Writer io.Writer
}

// DefaultTextOptions returns sensible defaults for text output.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Color:      nil, // auto-detect
		ShowSource: true,
	}
}

// TextReporter formats findings as plain or ANSI-colored text output.
type TextReporter struct {
	opts TextOptions
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(opts TextOptions) *TextReporter {
	return &TextReporter{opts: opts}
}

// Report implements Reporter.
func (r *TextReporter) Report(findings []Finding, sources map[string][]byte, _ ReportMetadata) error {
	w := r.opts.Writer
	if w == nil {
		w = os.Stdout
	}
	return r.Print(w, findings, sources)
}

// Print writes findings to the writer.
func (r *TextReporter) Print(w io.Writer, findings []Finding, sources map[string][]byte) error {
	sorted := SortFindings(findings)

	for _, f := range sorted {
		if err := r.printFinding(w, f, sources[f.File]); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextReporter) colorEnabled() bool {
	if r.opts.Color != nil {
		return *r.opts.Color
	}
	return stdoutIsTerminal()
}

// printFinding formats a single finding.
func (r *TextReporter) printFinding(w io.Writer, f Finding, source []byte) error {
	colorEnabled := r.colorEnabled()
	d := f.Diagnostic

	sevFg := ansiWarningFg
	if d.Severity == diagnostic.SeverityError {
		sevFg = ansiErrorFg
	}

	sevLabel := strings.ToUpper(d.Severity.String())
	if colorEnabled {
		fmt.Fprintf(w, "\n%s%s%s:%s %s%s%s\n", ansiBold, sevFg, sevLabel, ansiReset, ansiBold, d.Code.String(), ansiReset)
	} else {
		fmt.Fprintf(w, "\n%s: %s\n", sevLabel, d.Code.String())
	}

	if colorEnabled {
		fmt.Fprintf(w, "%s%s%s\n", ansiMessageFg, d.Message, ansiReset)
	} else {
		fmt.Fprintln(w, d.Message)
	}

	isFileLevel := d.Range.Start.Line == 0 && d.Range.Start.Character == 0 &&
		d.Range.End.Line == 0 && d.Range.End.Character == 0

	if r.opts.ShowSource && !isFileLevel && len(source) > 0 {
		r.printSource(w, f.File, d, source, colorEnabled)
	}

	return nil
}

// printSource renders the source code snippet around a diagnostic's range.
func (r *TextReporter) printSource(w io.Writer, file string, d diagnostic.Diagnostic, source []byte, colorEnabled bool) {
	lines := strings.Split(string(source), "\n")

	// Diagnostic ranges are 0-based; the snippet is printed 1-based.
	start := d.Range.Start.Line + 1
	end := d.Range.End.Line + 1
	if end < start {
		end = start
	}

	if start > len(lines) || start < 1 {
		return
	}
	if end > len(lines) {
		end = len(lines)
	}

	pad := 2
	if end == start {
		pad = 4
	}

	displayStart := start
	p := 0
	for p < pad {
		expanded := false
		if start > 1 {
			start--
			p++
			expanded = true
		}
		if end < len(lines) {
			end++
			p++
			expanded = true
		}
		if !expanded {
			break
		}
	}

	fmt.Fprintln(w)
	if colorEnabled {
		fmt.Fprintf(w, "%s%s:%d%s\n", ansiFileLocFg, file, displayStart, ansiReset)
		fmt.Fprintf(w, "%s────────────────────%s\n", ansiSepFg, ansiReset)
	} else {
		fmt.Fprintf(w, "%s:%d\n", file, displayStart)
		fmt.Fprintln(w, "--------------------")
	}

	for i := start; i <= end; i++ {
		isAffected := lineInRange(i, d.Range.Start.Line+1, d.Range.End.Line+1)
		lineContent := strings.TrimSuffix(lines[i-1], "\r")

		var lineNum string
		if colorEnabled {
			lineNum = fmt.Sprintf("%s %3d │%s", ansiLineNumFg, i, ansiReset)
		} else {
			lineNum = fmt.Sprintf(" %3d |", i)
		}

		var marker string
		if isAffected {
			if colorEnabled {
				marker = ansiMarkerFg + ">>>" + ansiReset
			} else {
				marker = ">>>"
			}
		} else {
			marker = "   "
		}

		fmt.Fprintf(w, "%s %s %s\n", lineNum, marker, lineContent)
	}

	if colorEnabled {
		fmt.Fprintf(w, "%s────────────────────%s\n", ansiSepFg, ansiReset)
	} else {
		fmt.Fprintln(w, "--------------------")
	}
}

// PrintText is a convenience function that uses default options.
func PrintText(w io.Writer, findings []Finding, sources map[string][]byte) error {
	r := NewTextReporter(DefaultTextOptions())
	return r.Print(w, findings, sources)
}

// PrintTextPlain writes findings without any styling (for non-TTY output).
func PrintTextPlain(w io.Writer, findings []Finding, sources map[string][]byte) error {
	noColor := false
	opts := TextOptions{
		Color:      &noColor,
		ShowSource: true,
	}
	r := NewTextReporter(opts)
	return r.Print(w, findings, sources)
}

// lineInRange checks if a 1-based line number is within the range [start, end].
func lineInRange(line, start, end int) bool {
	if end < start {
		end = start
	}
	return line >= start && line <= end
}
