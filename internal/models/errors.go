package models

import (
	"errors"
	"fmt"
)

// FailureKind classifies the ways a generation run can fail
type FailureKind int

const (
	UnsupportedTarget FailureKind = iota
	NoAccessibleConstructor
	EmissionIOFailure
	CompileFailure
	PackagingFailure
	ArchiveReadFailure
)

// String returns a stable human readable label for the failure kind
func (k FailureKind) String() string {
	switch k {
	case UnsupportedTarget:
		return "unsupported target"
	case NoAccessibleConstructor:
		return "no accessible constructor"
	case EmissionIOFailure:
		return "emission failed"
	case CompileFailure:
		return "compilation failed"
	case PackagingFailure:
		return "packaging failed"
	case ArchiveReadFailure:
		return "archive unreadable"
	default:
		return "unknown failure"
	}
}

// Error represents an error that occurred while implementing a target type
type Error struct {
	Kind    FailureKind // classification of the failure
	Target  string      // canonical name of the type being implemented
	Message string      // error message
	Cause   error       // underlying error cause
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s: %s: %s", e.Target, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an Error without an underlying cause
func NewError(kind FailureKind, target, message string) *Error {
	return &Error{Kind: kind, Target: target, Message: message}
}

// WrapError creates an Error around an underlying cause
func WrapError(kind FailureKind, target, message string, cause error) *Error {
	return &Error{Kind: kind, Target: target, Message: message, Cause: cause}
}

// IsKind reports whether err carries the given failure kind
func IsKind(err error, kind FailureKind) bool {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind == kind
	}
	return false
}
