package reporter

import "github.com/wharflab/dockfilelint/internal/diagnostic"

// Finding pairs a validator diagnostic with the file it was raised
// against. diagnostic.Diagnostic itself carries no file field, being
// scoped to a single document; a multi-file lint run needs the file
// to group, sort, and print by, which is the only thing every renderer in
// this package actually needs on top of the diagnostic itself.
type Finding struct {
	File       string
	Diagnostic diagnostic.Diagnostic
}

// FromDiagnostics pairs a single file's diagnostics with its path, for
// accumulation across a multi-file lint run before handing the combined
// slice to a Reporter.
func FromDiagnostics(file string, diags []diagnostic.Diagnostic) []Finding {
	findings := make([]Finding, 0, len(diags))
	for _, d := range diags {
		findings = append(findings, Finding{File: file, Diagnostic: d})
	}
	return findings
}
