package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"implgen/internal/loader"
	"implgen/internal/models"
)

func TestReportErrorWithFailureKind(t *testing.T) {
	var buf bytes.Buffer
	reporter := &DiagnosticReporter{out: &buf}

	reporter.ReportError(models.NewError(models.NoAccessibleConstructor, "com.example.Maker", "every declared constructor is private"))

	output := buf.String()
	for _, expected := range []string{
		"ERROR: Implementation Failed",
		"com.example.Maker",
		"every declared constructor is private",
		"Suggestions:",
		"no subclass can call super",
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("output should contain %q, got:\n%s", expected, output)
		}
	}
}

func TestReportErrorSuggestionsAreNumbered(t *testing.T) {
	var buf bytes.Buffer
	reporter := &DiagnosticReporter{out: &buf}

	reporter.ReportError(models.NewError(models.CompileFailure, "com.example.TaskImpl", "javac failed"))

	output := buf.String()
	if !strings.Contains(output, "   1. ") || !strings.Contains(output, "   2. ") {
		t.Errorf("suggestions should be numbered, got:\n%s", output)
	}
}

func TestReportErrorNotFound(t *testing.T) {
	var buf bytes.Buffer
	reporter := &DiagnosticReporter{out: &buf}

	reporter.ReportError(fmt.Errorf("com.missing.Gone: %w", loader.ErrNotFound))

	output := buf.String()
	if !strings.Contains(output, "Check the spelling of the fully qualified name") {
		t.Errorf("not-found errors should suggest checking the name, got:\n%s", output)
	}
	if !strings.Contains(output, "-cp") {
		t.Errorf("not-found errors should point at the classpath, got:\n%s", output)
	}
}

func TestReportErrorUnclassified(t *testing.T) {
	var buf bytes.Buffer
	reporter := &DiagnosticReporter{out: &buf}

	reporter.ReportError(errors.New("something unexpected"))

	output := buf.String()
	if !strings.Contains(output, "Message: something unexpected") {
		t.Errorf("plain errors should still print the message, got:\n%s", output)
	}
	if strings.Contains(output, "Suggestions:") {
		t.Errorf("plain errors have no suggestions, got:\n%s", output)
	}
}

func TestReportErrorVerboseChain(t *testing.T) {
	var buf bytes.Buffer
	reporter := &DiagnosticReporter{verbose: true, out: &buf}

	cause := fmt.Errorf("open TaskImpl.java: %w", errors.New("permission denied"))
	reporter.ReportError(models.WrapError(models.EmissionIOFailure, "com.example.Task", "cannot write TaskImpl.java", cause))

	output := buf.String()
	if !strings.Contains(output, "Error chain:") {
		t.Errorf("verbose mode should print the cause chain, got:\n%s", output)
	}
	if !strings.Contains(output, "permission denied") {
		t.Errorf("cause chain should reach the root cause, got:\n%s", output)
	}
}

func TestReportErrorQuietChain(t *testing.T) {
	var buf bytes.Buffer
	reporter := &DiagnosticReporter{out: &buf}

	cause := errors.New("disk full")
	reporter.ReportError(models.WrapError(models.EmissionIOFailure, "com.example.Task", "cannot write TaskImpl.java", cause))

	if strings.Contains(buf.String(), "Error chain:") {
		t.Errorf("cause chain is verbose-only, got:\n%s", buf.String())
	}
}

func TestReportWarning(t *testing.T) {
	var buf bytes.Buffer
	reporter := &DiagnosticReporter{out: &buf}

	reporter.ReportWarning("replacing existing archive %s", "TaskImpl.jar")

	if !strings.Contains(buf.String(), "replacing existing archive TaskImpl.jar") {
		t.Errorf("warning should carry the formatted message, got:\n%s", buf.String())
	}
}

func TestSuggestionsForCoversEveryKind(t *testing.T) {
	kinds := []models.FailureKind{
		models.UnsupportedTarget,
		models.NoAccessibleConstructor,
		models.EmissionIOFailure,
		models.CompileFailure,
		models.PackagingFailure,
		models.ArchiveReadFailure,
	}
	for _, kind := range kinds {
		if len(suggestionsFor(kind)) == 0 {
			t.Errorf("kind %v should have suggestions", kind)
		}
	}
}
