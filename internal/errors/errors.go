// Package errors defines the stable error codes shared by every karmad
// failure mode, from configuration parsing through runtime lookups.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// MissingField indicates a required key is absent from a config section
	MissingField ErrorCode = "MISSING_FIELD"
	// InvalidRange indicates a malformed bound or min_range > max_range
	InvalidRange ErrorCode = "INVALID_RANGE"
	// InvalidTimeout indicates a malformed or negative timeout magnitude
	InvalidTimeout ErrorCode = "INVALID_TIMEOUT"
	// InvalidTimeoutUnit indicates an unknown timeout unit character
	InvalidTimeoutUnit ErrorCode = "INVALID_TIMEOUT_UNIT"
	// InvalidBool indicates a value that is not a recognized boolean token
	InvalidBool ErrorCode = "INVALID_BOOL"
	// InvalidValue indicates a malformed integer field
	InvalidValue ErrorCode = "INVALID_VALUE"
	// OverlappingRanges indicates two tiers claim the same karma value
	OverlappingRanges ErrorCode = "OVERLAPPING_RANGES"
	// DuplicateRange indicates two tiers share the same name
	DuplicateRange ErrorCode = "DUPLICATE_RANGE"
	// RangeNotFound indicates a lookup hit a gap between configured tiers
	RangeNotFound ErrorCode = "RANGE_NOT_FOUND"
	// ConfigNotFound indicates the ranges file doesn't exist or can't be read
	ConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// KarmaError represents a karmad error with code, message, and details
type KarmaError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new KarmaError
func New(code ErrorCode, message string) *KarmaError {
	return &KarmaError{Code: code, Message: message}
}

// Newf creates a new KarmaError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *KarmaError {
	return &KarmaError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new KarmaError with an underlying cause
func Wrap(code ErrorCode, message string, cause error) *KarmaError {
	return &KarmaError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *KarmaError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *KarmaError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *KarmaError) WithDetails(details interface{}) *KarmaError {
	e.Details = details
	return e
}

// CodeOf extracts the ErrorCode from an error chain.
// Returns InternalError for nil or non-karmad errors.
func CodeOf(err error) ErrorCode {
	var ke *KarmaError
	if stderrors.As(err, &ke) {
		return ke.Code
	}
	return InternalError
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var ke *KarmaError
	return stderrors.As(err, &ke) && ke.Code == code
}

// FixHint is an operator-facing suggestion attached to a config error code.
type FixHint struct {
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
}

// ErrorHints maps construction-time error codes to operator fix hints
var ErrorHints = map[ErrorCode][]FixHint{
	MissingField: {
		{
			Description: "Add the named key to the section in the ranges file",
			Example:     "timeout = 2h",
		},
	},
	InvalidRange: {
		{
			Description: "Bounds must be integer literals or oo/+oo/-oo, with range_min <= range_max",
			Example:     "range_min = -9\nrange_max = 9",
		},
	},
	InvalidTimeoutUnit: {
		{
			Description: "Timeout units are s (seconds), m (minutes), h (hours), d (days), w (weeks)",
			Example:     "timeout = 30m",
		},
	},
	OverlappingRanges: {
		{
			Description: "Adjust range_min/range_max so the named tiers no longer share any value",
		},
	},
	DuplicateRange: {
		{
			Description: "Give every tier section a distinct name key",
		},
	},
	ConfigNotFound: {
		{
			Description: "Point --ranges (or rangesPath in config.json) at an existing file",
		},
	},
}

// HintsFor returns operator fix hints for an error code
func HintsFor(code ErrorCode) []FixHint {
	if hints, ok := ErrorHints[code]; ok {
		return hints
	}
	return nil
}
