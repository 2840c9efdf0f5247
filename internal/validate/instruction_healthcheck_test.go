package validate

import (
	"testing"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

func TestValidate_HealthcheckNoneWithTrailingArgs(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nHEALTHCHECK NONE extra stuff"), nil)
	d := findCode(diags, diagnostic.ArgumentUnnecessary)
	if d == nil {
		t.Fatalf("expected ArgumentUnnecessary, got %+v", diags)
	}
	if d.Range.Start.Character != 16 {
		t.Errorf("Range = %+v, want the span after NONE", d.Range)
	}
}

func TestValidate_HealthcheckNoneWithFlagsTolerated(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nHEALTHCHECK --interval=30s NONE"), nil)
	// The builder ignores flags above NONE, so no diagnostic fires.
	if findCode(diags, diagnostic.ArgumentUnnecessary) != nil || findCode(diags, diagnostic.UnknownHealthcheckFlag) != nil {
		t.Fatalf("expected flags above NONE tolerated, got %+v", diags)
	}
}

func TestValidate_HealthcheckUnknownType(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nHEALTHCHECK CHECK ls"), nil)
	if findCode(diags, diagnostic.UnknownType) == nil {
		t.Fatalf("expected UnknownType, got %+v", diags)
	}
}

func TestValidate_HealthcheckCmdMissingArgument(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nHEALTHCHECK CMD"), nil)
	if findCode(diags, diagnostic.HealthcheckCmdArgumentMissing) == nil {
		t.Fatalf("expected HealthcheckCmdArgumentMissing, got %+v", diags)
	}
}

func TestValidate_HealthcheckRetriesNonInteger(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nHEALTHCHECK --retries=three CMD ls"), nil)
	if findCode(diags, diagnostic.InvalidSyntax) == nil {
		t.Fatalf("expected InvalidSyntax, got %+v", diags)
	}
}

func TestValidate_HealthcheckDurationFlags(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nHEALTHCHECK --interval=30s --timeout=5s --start-period=1m --start-interval=5s CMD ls"), nil)
	for _, code := range []diagnostic.Code{
		diagnostic.FlagMissingDuration, diagnostic.FlagInvalidDuration,
		diagnostic.FlagLessThan1ms, diagnostic.FlagUnknownUnit, diagnostic.UnknownHealthcheckFlag,
	} {
		if findCode(diags, code) != nil {
			t.Fatalf("expected valid durations accepted, got %+v", diags)
		}
	}
}

func TestValidate_HealthcheckIntervalTooSmall(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nHEALTHCHECK --interval=500us CMD ls"), nil)
	if findCode(diags, diagnostic.FlagLessThan1ms) == nil {
		t.Fatalf("expected FlagLessThan1ms, got %+v", diags)
	}
}

func TestValidate_HealthcheckDuplicateFlag(t *testing.T) {
	diags := Validate([]byte("FROM alpine\nHEALTHCHECK --interval=30s --interval=10s CMD ls"), nil)
	if countCode(diags, diagnostic.FlagDuplicate) != 2 {
		t.Fatalf("expected FlagDuplicate on both occurrences, got %+v", diags)
	}
}
