package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"implgen/internal/generator"
	"implgen/internal/introspect"
	"implgen/internal/loader"
	"implgen/internal/models"
	"implgen/internal/resolver"
	"implgen/internal/utils"
)

// GenerationSummary captures what a run produced
type GenerationSummary struct {
	Target         string   // canonical name of the implemented type
	Constructors   int      // constructors carried into the stub
	Methods        int      // abstract methods stubbed
	GeneratedFiles []string // files the run left behind
}

// Generator coordinates the implementation pipeline: load the target, walk
// its hierarchy, resolve the method set, emit the stub and optionally
// compile and package it.
type Generator struct {
	diagnostics *utils.DiagnosticSystem
	compiler    Compiler // nil means build one from the config
	archiver    Archiver // nil means the default jar archiver
	summary     GenerationSummary
}

// NewGenerator creates a pipeline around the given diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{diagnostics: diagnostics}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes the complete pipeline for one target
func (g *Generator) Run(config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{Target: config.Target}

	g.diagnostics.Header("implementing %s", config.Target)
	g.diagnostics.Verbose("run started at %s", startTime.Format("15:04:05"))
	g.diagnostics.Indent()
	for _, entry := range config.Classpath {
		g.diagnostics.Verbose("classpath entry %s", entry)
	}
	g.diagnostics.Unindent()

	ld, err := loader.New(config.Classpath)
	if err != nil {
		return err
	}
	defer ld.Close()

	target, err := ld.Load(config.Target)
	if err != nil {
		return err
	}

	intro := introspect.New(ld)
	hier, err := intro.Hierarchy(target)
	if err != nil {
		return err
	}
	g.diagnostics.Verbose("ancestor chain has %d levels", len(hier.Levels))

	res, err := resolver.New(intro).Resolve(hier)
	if err != nil {
		return err
	}
	g.summary.Constructors = len(res.Constructors)
	g.summary.Methods = len(res.Methods)
	g.diagnostics.Verbose("retained %d constructors, %d abstract methods",
		len(res.Constructors), len(res.Methods))

	src, err := generator.Generate(res)
	if err != nil {
		return utils.WrapEmitError(config.Target, err)
	}

	if config.JarPath == "" {
		path, err := g.writeSource(src, config.OutputDir)
		if err != nil {
			return err
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, path)
		g.diagnostics.Progress("wrote %s", path)
		g.finish(startTime)
		return nil
	}

	if err := g.buildArchive(config, src); err != nil {
		return err
	}
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, config.JarPath)
	g.finish(startTime)
	return nil
}

// writeSource writes the rendered stub under the output root
func (g *Generator) writeSource(src *models.GeneratedSource, outputRoot string) (string, error) {
	path := filepath.Join(outputRoot, src.FilePath)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", models.WrapError(models.EmissionIOFailure, src.TypeName,
				fmt.Sprintf("cannot create %s", dir), err)
		}
	}
	if err := os.WriteFile(path, []byte(src.Content), 0644); err != nil {
		return "", models.WrapError(models.EmissionIOFailure, src.TypeName,
			fmt.Sprintf("cannot write %s", path), err)
	}
	return path, nil
}

// buildArchive emits the stub into a staging directory, compiles it there
// and packages the classes. Staging lives next to the archive so the final
// rename stays on one filesystem.
func (g *Generator) buildArchive(config Config, src *models.GeneratedSource) error {
	jarDir := filepath.Dir(config.JarPath)
	if err := os.MkdirAll(jarDir, 0755); err != nil {
		return models.WrapError(models.PackagingFailure, src.TypeName,
			fmt.Sprintf("cannot create %s", jarDir), err)
	}
	staging, err := os.MkdirTemp(jarDir, "implgen-")
	if err != nil {
		return models.WrapError(models.PackagingFailure, src.TypeName,
			"cannot create staging directory", err)
	}
	defer os.RemoveAll(staging)

	srcPath, err := g.writeSource(src, staging)
	if err != nil {
		return err
	}
	g.diagnostics.Progress("wrote %s", srcPath)

	compiler := g.compiler
	if compiler == nil {
		compiler = NewExecCompiler(config.Compiler)
	}
	classpath := append([]string{staging}, config.Classpath...)
	if err := compiler.Compile([]string{srcPath}, classpath); err != nil {
		return utils.WrapCompileError(src.TypeName, err)
	}
	g.diagnostics.Progress("compiled %s", src.TypeName)

	archiver := g.archiver
	if archiver == nil {
		archiver = NewJarArchiver()
	}
	if err := archiver.Package(staging, config.JarPath); err != nil {
		return err
	}
	g.diagnostics.Progress("packaged %s", config.JarPath)
	return nil
}

// finish reports the closing summary
func (g *Generator) finish(startTime time.Time) {
	g.diagnostics.Summary("generation summary", map[string]interface{}{
		"target":       g.summary.Target,
		"constructors": g.summary.Constructors,
		"methods":      g.summary.Methods,
		"files":        len(g.summary.GeneratedFiles),
		"elapsed":      time.Since(startTime).Round(time.Millisecond).String(),
	})
}
