package validate

import (
	"testing"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

func TestValidate_ShellJSONFormAccepted(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nSHELL [\"/bin/sh\", \"-c\"]"), nil)
	if findCode(diags, diagnostic.ShellJSONForm) != nil || findCode(diags, diagnostic.ShellRequiresOne) != nil {
		t.Fatalf("expected exec form accepted, got %+v", diags)
	}
}

func TestValidate_ShellEmptyList(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nSHELL []"), nil)
	if findCode(diags, diagnostic.ShellRequiresOne) == nil {
		t.Fatalf("expected ShellRequiresOne, got %+v", diags)
	}
}

func TestValidate_ShellBackslashLetterAccepted(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nSHELL [\"a\\\\b\"]"), nil)
	if findCode(diags, diagnostic.ShellJSONForm) != nil {
		t.Fatalf("expected backslash-letter accepted, got %+v", diags)
	}
}

func TestValidate_ShellBackslashSpaceFlagged(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nSHELL [\"a\\ b\"]"), nil)
	if findCode(diags, diagnostic.ShellJSONForm) == nil {
		t.Fatalf("expected ShellJSONForm for backslash-space, got %+v", diags)
	}
}

func TestValidate_EnvMissingValue(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nENV FOO"), nil)
	if findCode(diags, diagnostic.ArgumentRequiresTwo) == nil {
		t.Fatalf("expected ArgumentRequiresTwo, got %+v", diags)
	}
}

func TestValidate_EnvLaterPropertyMissingEquals(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nENV FOO=bar BAZ"), nil)
	if findCode(diags, diagnostic.SyntaxMissingEquals) == nil {
		t.Fatalf("expected SyntaxMissingEquals, got %+v", diags)
	}
}

func TestValidate_LabelFirstPropertyWithoutEqualsTolerated(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nLABEL maintainer"), nil)
	if findCode(diags, diagnostic.ArgumentRequiresTwo) != nil || findCode(diags, diagnostic.SyntaxMissingEquals) != nil {
		t.Fatalf("expected LABEL single token tolerated, got %+v", diags)
	}
}

func TestValidate_EnvUnterminatedDoubleQuote(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nENV FOO=\"bar"), nil)
	if findCode(diags, diagnostic.SyntaxMissingDoubleQuote) == nil {
		t.Fatalf("expected SyntaxMissingDoubleQuote, got %+v", diags)
	}
}

func TestValidate_EnvUnterminatedSingleQuote(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nENV FOO='bar"), nil)
	if findCode(diags, diagnostic.SyntaxMissingSingleQuote) == nil {
		t.Fatalf("expected SyntaxMissingSingleQuote, got %+v", diags)
	}
}
