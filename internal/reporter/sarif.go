package reporter

import (
	"io"
	"path/filepath"
	"sort"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

// Default SARIF tool information.
const (
	defaultToolName = "dockfilelint"
	defaultToolURI  = "https://github.com/wharflab/dockfilelint"
)

// SARIFReporter formats findings as SARIF (Static Analysis Results Interchange Format).
// SARIF is a standard format for static analysis tools, widely supported by CI/CD systems
// including GitHub Code Scanning and Azure DevOps.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{
		writer:      w,
		toolName:    toolName,
		toolVersion: toolVersion,
		toolURI:     toolURI,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(findings []Finding, _ map[string][]byte, _ ReportMetadata) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	ruleSet := make(map[string]struct{})
	fileSet := make(map[string]struct{})

	for _, f := range findings {
		ruleSet[f.Diagnostic.Code.String()] = struct{}{}
		fileSet[filepath.ToSlash(f.File)] = struct{}{}
	}

	ruleCodes := make([]string, 0, len(ruleSet))
	for code := range ruleSet {
		ruleCodes = append(ruleCodes, code)
	}
	sort.Strings(ruleCodes)

	for _, code := range ruleCodes {
		run.AddRule(code)
	}

	files := make([]string, 0, len(fileSet))
	for file := range fileSet {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		run.AddDistinctArtifact(file)
	}

	for _, f := range findings {
		filePath := filepath.ToSlash(f.File)
		d := f.Diagnostic

		result := sarif.NewRuleResult(d.Code.String()).
			WithMessage(sarif.NewTextMessage(d.Message)).
			WithLevel(severityToSARIFLevel(d.Severity))

		isFileLevel := d.Range.Start.Line == 0 && d.Range.Start.Character == 0 &&
			d.Range.End.Line == 0 && d.Range.End.Character == 0

		physicalLocation := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath))

		if !isFileLevel {
			region := sarif.NewRegion().
				WithStartLine(d.Range.Start.Line + 1).
				WithStartColumn(d.Range.Start.Character + 1)

			if d.Range.End.Line > d.Range.Start.Line || d.Range.End.Character > d.Range.Start.Character {
				region.WithEndLine(d.Range.End.Line + 1)
				region.WithEndColumn(d.Range.End.Character + 1)
			}

			physicalLocation.WithRegion(region)
		}

		result.WithLocations([]*sarif.Location{
			sarif.NewLocationWithPhysicalLocation(physicalLocation),
		})

		run.AddResult(result)
	}

	report.AddRun(run)

	return report.PrettyWrite(r.writer)
}

// SARIF severity levels.
const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
)

// severityToSARIFLevel maps our Severity to SARIF levels.
// SARIF uses: "error", "warning", "note", "none".
func severityToSARIFLevel(s diagnostic.Severity) string {
	if s == diagnostic.SeverityError {
		return sarifLevelError
	}
	return sarifLevelWarning
}
