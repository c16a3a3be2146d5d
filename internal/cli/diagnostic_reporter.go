package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"implgen/internal/loader"
	"implgen/internal/models"
)

// DiagnosticReporter renders failures with actionable guidance
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: os.Stderr}
}

// ReportWarning prints a short warning line
func (r *DiagnosticReporter) ReportWarning(format string, args ...interface{}) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, format+"\n", args...)
}

// ReportError renders a failed run, with suggestions when the failure kind
// can be classified
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Implementation Failed\n")
	fmt.Fprintf(r.out, "============================\n\n")
	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	var genErr *models.Error
	switch {
	case errors.As(err, &genErr):
		r.printSuggestions(suggestionsFor(genErr.Kind))
		if r.verbose {
			r.printErrorChain(genErr)
		}
	case errors.Is(err, loader.ErrNotFound):
		r.printSuggestions([]string{
			"Check the spelling of the fully qualified name",
			"Add the directory or jar providing the class to -cp",
			"Nested classes are named by their canonical form, e.g. com.example.Outer.Inner",
		})
	}
}

// printSuggestions prints actionable suggestions as a numbered list
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, suggestion)
	}
	fmt.Fprintf(r.out, "\n")
}

// printErrorChain prints the cause chain in verbose mode
func (r *DiagnosticReporter) printErrorChain(genErr *models.Error) {
	if genErr.Cause == nil {
		return
	}
	fmt.Fprintf(r.out, "Error chain:\n")
	level := 1
	for err := genErr.Cause; err != nil; err = errors.Unwrap(err) {
		fmt.Fprintf(r.out, "   %d. %s\n", level, err.Error())
		level++
	}
	fmt.Fprintf(r.out, "\n")
}

// suggestionsFor maps a failure kind to next steps
func suggestionsFor(kind models.FailureKind) []string {
	switch kind {
	case models.UnsupportedTarget:
		return []string{
			"Only interfaces and non-final classes can be implemented",
			"Primitive, array and final targets have no subtypes",
		}
	case models.NoAccessibleConstructor:
		return []string{
			"Every constructor of the target is private, so no subclass can call super",
			"Implement an ancestor that leaves a constructor accessible instead",
		}
	case models.EmissionIOFailure:
		return []string{
			"Check write permissions for the output directory",
			"Verify there is enough disk space",
		}
	case models.CompileFailure:
		return []string{
			"Make sure a JDK javac is on PATH, or set compiler in implgen.toml",
			"The classpath must cover every type the target references",
		}
	case models.PackagingFailure:
		return []string{
			"Check write permissions for the archive destination",
			"The destination directory must exist or be creatable",
		}
	case models.ArchiveReadFailure:
		return []string{
			"A classpath archive is missing or corrupt",
			"Rebuild the archive or drop it from the classpath",
		}
	}
	return nil
}
