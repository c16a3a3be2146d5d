package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"implgen/internal/utils"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// config path is given
const DefaultConfigFile = "implgen.toml"

// Config holds the settings for one generation run
type Config struct {
	// Target is the canonical name of the type to implement
	Target string

	// Classpath entries searched for class files, directories or archives
	Classpath []string

	// OutputDir is the root directory for emitted sources
	OutputDir string

	// JarPath is the archive to produce, empty to stop after emission
	JarPath string

	// Compiler is the compiler binary invoked for archive builds
	Compiler string

	// Verbose enables detailed diagnostics
	Verbose bool

	// Quiet restricts diagnostics to errors
	Quiet bool
}

// fileConfig mirrors the TOML layout of a config file
type fileConfig struct {
	Classpath []string `toml:"classpath"`
	Output    string   `toml:"output"`
	Compiler  string   `toml:"compiler"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() Config {
	return Config{
		OutputDir: ".",
		Compiler:  "javac",
	}
}

// ApplyFile overlays settings from a TOML config file onto c. A missing file
// is only an error when the path was requested explicitly.
func (c *Config) ApplyFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return utils.WrapLoadError(path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return utils.WrapLoadError(path, err)
	}

	if len(fc.Classpath) > 0 {
		c.Classpath = fc.Classpath
	}
	if fc.Output != "" {
		c.OutputDir = fc.Output
	}
	if fc.Compiler != "" {
		c.Compiler = fc.Compiler
	}
	return nil
}
