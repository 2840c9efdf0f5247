package validate

import (
	"testing"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
	"github.com/wharflab/dockfilelint/internal/settingsio"
)

func TestValidate_DuplicatedEscapeDirective(t *testing.T) {
	src := "# escape=`\n# escape=\\\nFROM alpine"
	diags := Validate([]byte(src), nil)
	if countCode(diags, diagnostic.DuplicatedEscapeDirective) != 1 {
		t.Fatalf("expected one DuplicatedEscapeDirective, got %+v", diags)
	}
}

func TestValidate_InvalidEscapeDirective(t *testing.T) {
	diags := Validate([]byte("# escape=a\nFROM alpine"), nil)
	if findCode(diags, diagnostic.InvalidEscapeDirective) == nil {
		t.Fatalf("expected InvalidEscapeDirective, got %+v", diags)
	}
}

func TestValidate_DirectiveCasing(t *testing.T) {
	diags := Validate([]byte("# Escape=`\nFROM alpine"), nil)
	if findCode(diags, diagnostic.CasingDirective) == nil {
		t.Fatalf("expected CasingDirective, got %+v", diags)
	}
}

func TestValidate_BacktickEscapeJoinsContinuations(t *testing.T) {
	src := "# escape=`\nFROM alpine\nRUN echo a `\necho b"
	diags := Validate([]byte(src), nil)
	if findCode(diags, diagnostic.UnknownInstruction) != nil {
		t.Fatalf("expected backtick continuation joined, got %+v", diags)
	}
}

func TestValidate_EmptyContinuationLine(t *testing.T) {
	src := "FROM alpine\nRUN echo a \\\n\n\necho b"
	diags := Validate([]byte(src), nil)
	d := findCode(diags, diagnostic.EmptyContinuationLine)
	if d == nil {
		t.Fatalf("expected EmptyContinuationLine, got %+v", diags)
	}
	if d.Range.Start.Line != 2 || d.Range.End.Line != 4 {
		t.Errorf("Range = %+v, want lines 2 through start of 4", d.Range)
	}
}

func TestValidate_EmptyContinuationLine_SeparateRuns(t *testing.T) {
	src := "FROM alpine\nRUN echo a \\\n\n# note\n\necho b"
	diags := Validate([]byte(src), nil)
	if countCode(diags, diagnostic.EmptyContinuationLine) != 2 {
		t.Fatalf("expected two runs reported, got %+v", diags)
	}
}

func TestValidate_AllIgnoreSuppressesConfigurableRules(t *testing.T) {
	src := "from alpine\nmaintainer x\nworkdir app\nCMD ['a']\nCMD ['b']"
	ignoreAll := settingsio.ValidatorSettings{Rules: map[string]diagnostic.Severity{}}
	for key := range settingsio.DefaultValidatorSettings().Rules {
		ignoreAll.Rules[key] = diagnostic.SeverityIgnore
	}
	diags := Validate([]byte(src), &ignoreAll)
	for _, code := range []diagnostic.Code{
		diagnostic.CasingInstruction, diagnostic.DeprecatedMaintainer,
		diagnostic.WorkdirIsNotAbsolute, diagnostic.JSONInSingleQuotes,
		diagnostic.MultipleInstructions,
	} {
		if findCode(diags, code) != nil {
			t.Errorf("code %v emitted despite IGNORE settings: %+v", code, diags)
		}
	}
	// Non-configurable rules still fire with their intrinsic severity.
	withDefaults := Validate([]byte(src), nil)
	if len(diags) > len(withDefaults) {
		t.Errorf("ignore-all output (%d) larger than default output (%d)", len(diags), len(withDefaults))
	}
}
