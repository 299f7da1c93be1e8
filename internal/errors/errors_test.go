package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestKarmaError_Error(t *testing.T) {
	err := New(InvalidRange, "range_min > range_max")
	if got := err.Error(); got != "[INVALID_RANGE] range_min > range_max" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(ConfigNotFound, "cannot read ranges file", fmt.Errorf("open karma.conf: no such file"))
	if !strings.Contains(wrapped.Error(), "CONFIG_NOT_FOUND") {
		t.Errorf("Error() missing code: %q", wrapped.Error())
	}
	if !strings.Contains(wrapped.Error(), "no such file") {
		t.Errorf("Error() missing cause: %q", wrapped.Error())
	}
}

func TestKarmaError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(InternalError, "wrapped", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"direct", New(OverlappingRanges, "x"), OverlappingRanges},
		{"wrapped in fmt", fmt.Errorf("build: %w", New(MissingField, "y")), MissingField},
		{"plain error", fmt.Errorf("plain"), InternalError},
		{"nil", nil, InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("lookup: %w", New(RangeNotFound, "karma 15 uncovered"))
	if !IsCode(err, RangeNotFound) {
		t.Error("IsCode should match through wrapping")
	}
	if IsCode(err, OverlappingRanges) {
		t.Error("IsCode matched wrong code")
	}
}

func TestHintsFor(t *testing.T) {
	if hints := HintsFor(OverlappingRanges); len(hints) == 0 {
		t.Error("OverlappingRanges should carry a fix hint")
	}
	if hints := HintsFor(InternalError); hints != nil {
		t.Errorf("InternalError should have no hints, got %v", hints)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(OverlappingRanges, "tiers overlap").WithDetails(map[string]string{
		"range": "a", "other": "b",
	})
	details, ok := err.Details.(map[string]string)
	if !ok {
		t.Fatalf("Details type = %T", err.Details)
	}
	if details["range"] != "a" || details["other"] != "b" {
		t.Errorf("Details = %v", details)
	}
}
