package loader

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"implgen/internal/classfile"
	"implgen/internal/models"
)

// ErrNotFound reports that no classpath entry provides the requested type
var ErrNotFound = errors.New("type not found on classpath")

// ClasspathLoader resolves canonical type names to descriptors by reading
// class files from directories and jar archives. Generation runs are
// single-threaded, so the loader performs no locking.
type ClasspathLoader struct {
	entries []entry
	cache   map[string]*models.TypeDescriptor
}

// entry is one classpath element able to serve class file resources
type entry interface {
	read(resource string) ([]byte, bool, error)
	close() error
}

// New builds a loader over the given classpath. Directories are read lazily,
// archives are opened immediately so an unreadable archive fails up front.
func New(classpath []string) (*ClasspathLoader, error) {
	l := &ClasspathLoader{cache: make(map[string]*models.TypeDescriptor)}
	for _, path := range classpath {
		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			l.entries = append(l.entries, dirEntry{root: path})
		case err == nil:
			rc, zipErr := zip.OpenReader(path)
			if zipErr != nil {
				l.Close()
				return nil, models.WrapError(models.ArchiveReadFailure, "",
					fmt.Sprintf("cannot open archive %s", path), zipErr)
			}
			l.entries = append(l.entries, &jarEntry{path: path, rc: rc})
		case isArchivePath(path):
			l.Close()
			return nil, models.WrapError(models.ArchiveReadFailure, "",
				fmt.Sprintf("cannot open archive %s", path), err)
		default:
			// missing directories contribute nothing
		}
	}
	return l, nil
}

// Close releases any archives held open by the loader
func (l *ClasspathLoader) Close() error {
	var first error
	for _, e := range l.entries {
		if err := e.close(); err != nil && first == nil {
			first = err
		}
	}
	l.entries = nil
	return first
}

// Load resolves a canonical type name into a descriptor. Primitive and
// array names produce synthetic descriptors without touching the classpath.
func (l *ClasspathLoader) Load(name string) (*models.TypeDescriptor, error) {
	if d, ok := l.cache[name]; ok {
		return d, nil
	}
	if d := syntheticDescriptor(name); d != nil {
		l.cache[name] = d
		return d, nil
	}

	data, err := l.find(name)
	if err != nil {
		return nil, err
	}
	f, err := classfile.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	d, err := classfile.Describe(f)
	if err != nil {
		return nil, err
	}
	l.cache[name] = d
	return d, nil
}

func (l *ClasspathLoader) find(name string) ([]byte, error) {
	for _, resource := range resourceCandidates(name) {
		for _, e := range l.entries {
			data, ok, err := e.read(resource)
			if err != nil {
				return nil, err
			}
			if ok {
				return data, nil
			}
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// resourceCandidates maps a canonical name to possible class file paths.
// All dots are package separators in the first candidate; nested classes
// live in "Outer$Inner.class" files, so trailing separators are rewritten
// to '$' one at a time until a candidate matches.
func resourceCandidates(name string) []string {
	base := strings.ReplaceAll(name, ".", "/")
	out := []string{base + ".class"}
	for {
		idx := strings.LastIndex(base, "/")
		if idx < 0 {
			break
		}
		base = base[:idx] + "$" + base[idx+1:]
		out = append(out, base+".class")
	}
	return out
}

// syntheticDescriptor covers names that never have class files
func syntheticDescriptor(name string) *models.TypeDescriptor {
	if models.IsPrimitiveName(name) {
		return &models.TypeDescriptor{
			Name:       name,
			SimpleName: name,
			Kind:       models.KindPrimitive,
			Final:      true,
		}
	}
	if strings.HasSuffix(name, "[]") {
		// arrays act like final classes extending java.lang.Object
		pkg, simple := models.SplitName(name)
		return &models.TypeDescriptor{
			Name:       name,
			Package:    pkg,
			SimpleName: simple,
			Kind:       models.KindClass,
			Final:      true,
			Superclass: "java.lang.Object",
		}
	}
	return nil
}

func isArchivePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jar" || ext == ".zip"
}

// dirEntry serves class files from a directory root
type dirEntry struct {
	root string
}

func (d dirEntry) read(resource string) ([]byte, bool, error) {
	path := filepath.Join(d.root, filepath.FromSlash(resource))
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (d dirEntry) close() error { return nil }

// jarEntry serves class files from an opened archive
type jarEntry struct {
	path string
	rc   *zip.ReadCloser
}

func (j *jarEntry) read(resource string) ([]byte, bool, error) {
	f, err := j.rc.Open(resource)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, models.WrapError(models.ArchiveReadFailure, "",
			fmt.Sprintf("cannot read %s from %s", resource, j.path), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, false, models.WrapError(models.ArchiveReadFailure, "",
			fmt.Sprintf("cannot read %s from %s", resource, j.path), err)
	}
	return data, true, nil
}

func (j *jarEntry) close() error { return j.rc.Close() }
