package validate

import (
	"strings"
	"testing"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

func TestValidate_FromTagLatestAccepted(t *testing.T) {
	diags := Validate([]byte("FROM alpine:latest"), nil)
	if findCode(diags, diagnostic.InvalidReferenceFormat) != nil {
		t.Fatalf("expected no InvalidReferenceFormat, got %+v", diags)
	}
}

func TestValidate_FromTagTooLong(t *testing.T) {
	tag := strings.Repeat("a", 129)
	diags := Validate([]byte("FROM alpine:"+tag), nil)
	d := findCode(diags, diagnostic.InvalidReferenceFormat)
	if d == nil {
		t.Fatalf("expected InvalidReferenceFormat for a 129-character tag, got %+v", diags)
	}
	if d.Range.Start.Character != 12 {
		t.Errorf("Range = %+v, want the tag substring starting at column 12", d.Range)
	}
}

func TestValidate_FromEmptyTagReportsWholeArgument(t *testing.T) {
	diags := Validate([]byte("FROM alpine:"), nil)
	d := findCode(diags, diagnostic.InvalidReferenceFormat)
	if d == nil {
		t.Fatalf("expected InvalidReferenceFormat for a trailing colon, got %+v", diags)
	}
	if d.Range.Start.Character != 5 || d.Range.End.Character != 12 {
		t.Errorf("Range = %+v, want the whole image argument (5..12)", d.Range)
	}
}

func TestValidate_FromDigest(t *testing.T) {
	ok := Validate([]byte("FROM alpine@sha256:c0ffee"), nil)
	if findCode(ok, diagnostic.InvalidReferenceFormat) != nil {
		t.Fatalf("expected valid digest accepted, got %+v", ok)
	}
	bad := Validate([]byte("FROM alpine@sha256:zzz"), nil)
	if findCode(bad, diagnostic.InvalidReferenceFormat) == nil {
		t.Fatalf("expected InvalidReferenceFormat for non-hex digest, got %+v", bad)
	}
}

func TestValidate_FromTwoArguments(t *testing.T) {
	diags := Validate([]byte("FROM alpine AS"), nil)
	if findCode(diags, diagnostic.ArgumentRequiresOneOrThree) == nil {
		t.Fatalf("expected ArgumentRequiresOneOrThree, got %+v", diags)
	}
}

func TestValidate_FromInvalidAs(t *testing.T) {
	diags := Validate([]byte("FROM alpine XX builder"), nil)
	if findCode(diags, diagnostic.InvalidAs) == nil {
		t.Fatalf("expected InvalidAs, got %+v", diags)
	}
}

func TestValidate_FromAsCaseInsensitive(t *testing.T) {
	diags := Validate([]byte("FROM alpine as builder"), nil)
	if findCode(diags, diagnostic.InvalidAs) != nil {
		t.Fatalf("expected lowercase as accepted, got %+v", diags)
	}
}

func TestValidate_FromInvalidStageName(t *testing.T) {
	diags := Validate([]byte("FROM alpine AS 1stage"), nil)
	if findCode(diags, diagnostic.InvalidBuildStageName) == nil {
		t.Fatalf("expected InvalidBuildStageName, got %+v", diags)
	}
}

func TestValidate_FromSoleUndefinedVariable(t *testing.T) {
	diags := Validate([]byte("FROM ${BASE}"), nil)
	if findCode(diags, diagnostic.BaseNameEmpty) == nil {
		t.Fatalf("expected BaseNameEmpty, got %+v", diags)
	}
}

func TestValidate_FromVariableWithInlineDefaultAccepted(t *testing.T) {
	diags := Validate([]byte("FROM ${BASE:-alpine}"), nil)
	if findCode(diags, diagnostic.BaseNameEmpty) != nil {
		t.Fatalf("expected inline default accepted, got %+v", diags)
	}
}

func TestValidate_FromArgDefinedVariableAccepted(t *testing.T) {
	diags := Validate([]byte("ARG BASE=alpine:3.19\nFROM ${BASE}"), nil)
	if findCode(diags, diagnostic.BaseNameEmpty) != nil {
		t.Fatalf("expected ARG-defined base accepted, got %+v", diags)
	}
}

func TestValidate_FromPlatformFlag(t *testing.T) {
	ok := Validate([]byte("FROM --platform=linux/amd64 alpine"), nil)
	if findCode(ok, diagnostic.UnknownFromFlag) != nil || findCode(ok, diagnostic.FlagMissingValue) != nil {
		t.Fatalf("expected --platform accepted, got %+v", ok)
	}
	missing := Validate([]byte("FROM --platform alpine"), nil)
	if findCode(missing, diagnostic.FlagMissingValue) == nil {
		t.Fatalf("expected FlagMissingValue, got %+v", missing)
	}
	unknown := Validate([]byte("FROM --arch=amd64 alpine"), nil)
	if findCode(unknown, diagnostic.UnknownFromFlag) == nil {
		t.Fatalf("expected UnknownFromFlag, got %+v", unknown)
	}
}
