package cli

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"implgen/internal/models"
)

// manifestContent is the minimal jar manifest, with the CRLF line endings
// the jar tooling writes
const manifestContent = "Manifest-Version: 1.0\r\n\r\n"

// Archiver packages compiled stubs into an archive
type Archiver interface {
	Package(rootDir, outPath string) error
}

// JarArchiver writes jar archives with a minimal manifest. Output is staged
// under a temporary name and renamed into place on success, so a failed run
// never leaves a partial archive at the destination.
type JarArchiver struct{}

// NewJarArchiver creates a new jar archiver
func NewJarArchiver() *JarArchiver {
	return &JarArchiver{}
}

// Package archives the class files under rootDir into outPath. The manifest
// comes first, then directories and class files in walk order.
func (a *JarArchiver) Package(rootDir, outPath string) error {
	tmpPath := fmt.Sprintf("%s.%s.tmp", outPath, uuid.NewString())
	out, err := os.Create(tmpPath)
	if err != nil {
		return models.WrapError(models.PackagingFailure, "",
			fmt.Sprintf("cannot create archive %s", outPath), err)
	}

	if err := writeArchive(out, rootDir); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return models.WrapError(models.PackagingFailure, "",
			fmt.Sprintf("cannot archive %s into %s", rootDir, outPath), err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return models.WrapError(models.PackagingFailure, "",
			fmt.Sprintf("cannot write archive %s", outPath), err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return models.WrapError(models.PackagingFailure, "",
			fmt.Sprintf("cannot move archive into place at %s", outPath), err)
	}
	return nil
}

// writeArchive writes the zip structure for everything under rootDir
func writeArchive(out *os.File, rootDir string) error {
	zw := zip.NewWriter(out)

	if _, err := zw.CreateHeader(&zip.FileHeader{Name: "META-INF/"}); err != nil {
		return err
	}
	mf, err := zw.Create("META-INF/MANIFEST.MF")
	if err != nil {
		return err
	}
	if _, err := mf.Write([]byte(manifestContent)); err != nil {
		return err
	}

	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == rootDir {
			return nil
		}
		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			_, err := zw.CreateHeader(&zip.FileHeader{Name: name + "/"})
			return err
		}
		if !strings.EqualFold(filepath.Ext(path), ".class") {
			return nil
		}

		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
