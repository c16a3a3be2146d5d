package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// ClasspathScanner expands classpath arguments into concrete entries
type ClasspathScanner struct{}

// NewClasspathScanner creates a new classpath scanner
func NewClasspathScanner() *ClasspathScanner {
	return &ClasspathScanner{}
}

// Expand splits a classpath string on the platform list separator and
// expands "dir/*" wildcards into the jar archives of that directory, the way
// java -cp does. Empty segments are dropped.
func (s *ClasspathScanner) Expand(classpath string) []string {
	var out []string
	for _, part := range strings.Split(classpath, string(os.PathListSeparator)) {
		if part == "" {
			continue
		}
		if filepath.Base(part) == "*" {
			out = append(out, jarsIn(filepath.Dir(part))...)
			continue
		}
		out = append(out, part)
	}
	return out
}

// jarsIn lists the jar archives of a directory in name order
func jarsIn(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var jars []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".jar") {
			jars = append(jars, filepath.Join(dir, e.Name()))
		}
	}
	return jars
}
