package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"implgen/internal/models"
)

// Compiler turns emitted sources into class files
type Compiler interface {
	Compile(sources []string, classpath []string) error
}

// ExecCompiler shells out to an external compiler binary
type ExecCompiler struct {
	binary string
}

// NewExecCompiler creates a compiler around the given binary, defaulting to
// javac when the name is empty
func NewExecCompiler(binary string) *ExecCompiler {
	if binary == "" {
		binary = "javac"
	}
	return &ExecCompiler{binary: binary}
}

// Compile invokes the compiler on the given sources. Class files land next
// to the sources. Compiler output is captured and carried in the returned
// error when the run fails.
func (c *ExecCompiler) Compile(sources, classpath []string) error {
	args := append([]string{}, sources...)
	if len(classpath) > 0 {
		args = append(args, "-cp", strings.Join(classpath, string(os.PathListSeparator)))
	}

	cmd := exec.Command(c.binary, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if output := strings.TrimSpace(out.String()); output != "" {
			return models.WrapError(models.CompileFailure, "",
				fmt.Sprintf("%s failed:\n%s", c.binary, output), err)
		}
		return models.WrapError(models.CompileFailure, "",
			fmt.Sprintf("cannot run %s", c.binary), err)
	}
	return nil
}
