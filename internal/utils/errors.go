package utils

import "fmt"

// ErrorWrappers provides common error wrapping patterns used throughout the
// codebase to keep failure messages consistent.

// WrapLoadError wraps an error with a "failed to load" message
func WrapLoadError(item string, err error) error {
	return fmt.Errorf("failed to load %s: %w", item, err)
}

// WrapEmitError wraps an error with a "failed to emit" message
func WrapEmitError(item string, err error) error {
	return fmt.Errorf("failed to emit %s: %w", item, err)
}

// WrapCompileError wraps an error with a "failed to compile" message
func WrapCompileError(item string, err error) error {
	return fmt.Errorf("failed to compile %s: %w", item, err)
}
