package directive

import (
	"testing"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/sourcemap"
)

func TestSuppressedLines(t *testing.T) {
	doc := ast.Parse([]byte("# dockerfile-utils: ignore\nRUN echo hi\n"))
	suppressed := SuppressedLines(doc)
	if !suppressed[1] {
		t.Fatalf("suppressed = %v, want line 1 marked", suppressed)
	}
}

func TestSuppressedLines_IgnoresNonExactText(t *testing.T) {
	doc := ast.Parse([]byte("# dockerfile-utils: ignore this please\nRUN echo hi\n"))
	suppressed := SuppressedLines(doc)
	if len(suppressed) != 0 {
		t.Fatalf("suppressed = %v, want empty for non-exact marker text", suppressed)
	}
}

func TestFilter_DropsMatchingInstructionLine(t *testing.T) {
	r := sourcemap.Range{}
	d1 := diagnostic.New(r, diagnostic.SeverityWarning, diagnostic.UnknownInstruction, "x").WithInstructionLine(1)
	d2 := diagnostic.New(r, diagnostic.SeverityWarning, diagnostic.UnknownInstruction, "y").WithInstructionLine(2)
	out := Filter([]diagnostic.Diagnostic{d1, d2}, map[int]bool{1: true})
	if len(out) != 1 || out[0].Message != "y" {
		t.Fatalf("Filter() = %+v", out)
	}
}

func TestFilter_NeverDropsDiagnosticsWithoutInstructionLine(t *testing.T) {
	r := sourcemap.Range{}
	d := diagnostic.New(r, diagnostic.SeverityError, diagnostic.NoSourceImage, "no source image")
	out := Filter([]diagnostic.Diagnostic{d}, map[int]bool{0: true})
	if len(out) != 1 {
		t.Fatalf("Filter() = %+v, want the document-level diagnostic kept", out)
	}
}
