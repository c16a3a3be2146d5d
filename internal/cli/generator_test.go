package cli

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"implgen/internal/classfile"
	"implgen/internal/classfile/classfiletest"
	"implgen/internal/loader"
	"implgen/internal/models"
	"implgen/internal/utils"
)

func writeClassFile(t *testing.T, root, resource string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(resource))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

// taskClasspath builds a classpath directory holding the com.fixture.Task
// interface with a single void run() method
func taskClasspath(t *testing.T) string {
	t.Helper()
	classes := t.TempDir()
	task := classfiletest.NewInterface("com/fixture/Task").
		Method(classfile.AccPublic|classfile.AccAbstract, "run", "()V").
		Bytes()
	writeClassFile(t, classes, "com/fixture/Task.class", task)
	return classes
}

// stubCompiler pretends to compile by dropping a class file next to each
// source, recording the arguments it was given
type stubCompiler struct {
	sources   []string
	classpath []string
	fail      error
}

func (c *stubCompiler) Compile(sources, classpath []string) error {
	c.sources = sources
	c.classpath = classpath
	if c.fail != nil {
		return c.fail
	}
	for _, src := range sources {
		class := strings.TrimSuffix(src, ".java") + ".class"
		if err := os.WriteFile(class, []byte{0xCA, 0xFE, 0xBA, 0xBE}, 0644); err != nil {
			return err
		}
	}
	return nil
}

func TestRunEmitsSource(t *testing.T) {
	out := t.TempDir()
	g := NewGenerator(utils.NewQuietDiagnostics())

	cfg := DefaultConfig()
	cfg.Target = "com.fixture.Task"
	cfg.Classpath = []string{taskClasspath(t)}
	cfg.OutputDir = out

	require.NoError(t, g.Run(cfg))

	path := filepath.Join(out, "com", "fixture", "TaskImpl.java")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "package com.fixture;\n\n" +
		"public class TaskImpl implements com.fixture.Task {\n\n" +
		"\tpublic void run() {\n" +
		"\t}\n" +
		"}"
	assert.Equal(t, want, string(data))

	sum := g.GetSummary()
	assert.Equal(t, "com.fixture.Task", sum.Target)
	assert.Equal(t, 1, sum.Methods)
	assert.Equal(t, 0, sum.Constructors)
	assert.Equal(t, []string{path}, sum.GeneratedFiles)
}

func TestRunPackagesArchive(t *testing.T) {
	jarDir := t.TempDir()
	jarPath := filepath.Join(jarDir, "TaskImpl.jar")
	compiler := &stubCompiler{}

	g := NewGenerator(utils.NewQuietDiagnostics())
	g.compiler = compiler

	cfg := DefaultConfig()
	cfg.Target = "com.fixture.Task"
	cfg.Classpath = []string{taskClasspath(t)}
	cfg.JarPath = jarPath

	require.NoError(t, g.Run(cfg))

	rc, err := zip.OpenReader(jarPath)
	require.NoError(t, err)
	defer rc.Close()

	names := make([]string, 0, len(rc.File))
	for _, f := range rc.File {
		names = append(names, f.Name)
	}
	want := []string{
		"META-INF/",
		"META-INF/MANIFEST.MF",
		"com/",
		"com/fixture/",
		"com/fixture/TaskImpl.class",
	}
	assert.Equal(t, want, names)

	// the stub compiles against the staging directory first, then the
	// original classpath
	require.Len(t, compiler.classpath, 2)
	assert.True(t, strings.HasPrefix(filepath.Base(compiler.classpath[0]), "implgen-"))
	assert.Equal(t, cfg.Classpath[0], compiler.classpath[1])
	require.Len(t, compiler.sources, 1)
	assert.Equal(t, filepath.Join(compiler.classpath[0], "com", "fixture", "TaskImpl.java"), compiler.sources[0])

	// staging is removed, only the archive remains next to it
	entries, err := os.ReadDir(jarDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TaskImpl.jar", entries[0].Name())

	assert.Equal(t, []string{jarPath}, g.GetSummary().GeneratedFiles)
}

func TestRunCompileFailureLeavesNoArchive(t *testing.T) {
	jarDir := t.TempDir()
	jarPath := filepath.Join(jarDir, "TaskImpl.jar")

	g := NewGenerator(utils.NewQuietDiagnostics())
	g.compiler = &stubCompiler{
		fail: models.NewError(models.CompileFailure, "", "TaskImpl.java:3: error: ';' expected"),
	}

	cfg := DefaultConfig()
	cfg.Target = "com.fixture.Task"
	cfg.Classpath = []string{taskClasspath(t)}
	cfg.JarPath = jarPath

	err := g.Run(cfg)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.CompileFailure))

	if _, statErr := os.Stat(jarPath); !os.IsNotExist(statErr) {
		t.Errorf("failed compilation must not produce an archive")
	}

	// staging is cleaned up even on failure
	entries, err := os.ReadDir(jarDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunTargetNotFound(t *testing.T) {
	g := NewGenerator(utils.NewQuietDiagnostics())

	cfg := DefaultConfig()
	cfg.Target = "com.missing.Gone"
	cfg.Classpath = []string{t.TempDir()}

	err := g.Run(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrNotFound)
}

func TestRunRejectsPrimitiveTarget(t *testing.T) {
	g := NewGenerator(utils.NewQuietDiagnostics())

	cfg := DefaultConfig()
	cfg.Target = "int"
	cfg.Classpath = []string{t.TempDir()}

	err := g.Run(cfg)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.UnsupportedTarget))
}

func TestRunRejectsFinalTarget(t *testing.T) {
	classes := t.TempDir()
	sealed := classfiletest.NewClass("com/fixture/Sealed").
		Access(classfile.AccPublic | classfile.AccFinal).
		Method(classfile.AccPublic, "<init>", "()V").
		Bytes()
	writeClassFile(t, classes, "com/fixture/Sealed.class", sealed)

	g := NewGenerator(utils.NewQuietDiagnostics())

	cfg := DefaultConfig()
	cfg.Target = "com.fixture.Sealed"
	cfg.Classpath = []string{classes}

	err := g.Run(cfg)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.UnsupportedTarget))
}

func TestRunRejectsPrivateOnlyConstructors(t *testing.T) {
	classes := t.TempDir()
	locked := classfiletest.NewClass("com/fixture/Locked").
		Access(classfile.AccPublic | classfile.AccAbstract).
		Method(classfile.AccPrivate, "<init>", "()V").
		Method(classfile.AccPublic|classfile.AccAbstract, "open", "()V").
		Bytes()
	writeClassFile(t, classes, "com/fixture/Locked.class", locked)

	g := NewGenerator(utils.NewQuietDiagnostics())

	cfg := DefaultConfig()
	cfg.Target = "com.fixture.Locked"
	cfg.Classpath = []string{classes}

	err := g.Run(cfg)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.NoAccessibleConstructor))
}

func TestRunAbstractClassStub(t *testing.T) {
	classes := t.TempDir()
	base := classfiletest.NewClass("com/fixture/Base").
		Access(classfile.AccPublic | classfile.AccAbstract).
		Method(classfile.AccPublic, "<init>", "(I)V", "java/io/IOException").
		Method(classfile.AccPublic|classfile.AccAbstract, "flush", "()V").
		Bytes()
	writeClassFile(t, classes, "com/fixture/Base.class", base)

	out := t.TempDir()
	g := NewGenerator(utils.NewQuietDiagnostics())

	cfg := DefaultConfig()
	cfg.Target = "com.fixture.Base"
	cfg.Classpath = []string{classes}
	cfg.OutputDir = out

	require.NoError(t, g.Run(cfg))

	data, err := os.ReadFile(filepath.Join(out, "com", "fixture", "BaseImpl.java"))
	require.NoError(t, err)

	want := "package com.fixture;\n\n" +
		"public class BaseImpl extends com.fixture.Base {\n\n" +
		"\tpublic BaseImpl(int arg1) throws java.io.IOException {\n" +
		"\t\tsuper(arg1);\n" +
		"\t}\n\n" +
		"\tpublic void flush() {\n" +
		"\t}\n" +
		"}"
	assert.Equal(t, want, string(data))
}
