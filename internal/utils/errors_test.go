package utils

import (
	"errors"
	"testing"
)

func TestErrorWrappers(t *testing.T) {
	originalErr := errors.New("original error")

	tests := []struct {
		name     string
		wrapper  func(string, error) error
		item     string
		expected string
	}{
		{
			name:     "WrapLoadError",
			wrapper:  WrapLoadError,
			item:     "com.example.Task",
			expected: "failed to load com.example.Task: original error",
		},
		{
			name:     "WrapEmitError",
			wrapper:  WrapEmitError,
			item:     "com.example.TaskImpl",
			expected: "failed to emit com.example.TaskImpl: original error",
		},
		{
			name:     "WrapCompileError",
			wrapper:  WrapCompileError,
			item:     "com.example.TaskImpl",
			expected: "failed to compile com.example.TaskImpl: original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.wrapper(tt.item, originalErr)
			if result.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result.Error())
			}

			if !errors.Is(result, originalErr) {
				t.Errorf("wrapped error should be unwrappable to original error")
			}
		})
	}
}

func TestErrorWrappersWithEmptyItem(t *testing.T) {
	originalErr := errors.New("test error")

	result := WrapLoadError("", originalErr)
	expected := "failed to load : test error"

	if result.Error() != expected {
		t.Errorf("expected %q, got %q", expected, result.Error())
	}
}
