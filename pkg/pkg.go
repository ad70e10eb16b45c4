/*
File    : krusty-go/pkg/pkg.go
Author  : krusty-lang developers
*/

// Package pkg knows where Krusty modules live on disk: the language
// extension, the per-user package directory, the search order used by
// import, platform naming for native libraries, and the --install
// workflow that copies packages into place.
package pkg

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/trace"
)

const (
	INSTALL_FOLDER      = ".krusty"
	INSTALL_SUBFOLDER   = "pkg"
	LANGUAGE_EXT        = "krt"
	DIR_PKG_INITIALIZER = "__pkg__.krt"
)

// dylibInitComment heads the generated initializer for installed
// native libraries.
const dylibInitComment = `# This file was created by Krusty's --install option
# - allows for easy importing of native dylib package

`

// NormalizeImportPath maps an import argument to a concrete file path:
// a directory is imported through its package initializer, and plain
// files get the language extension.
func NormalizeImportPath(p string) string {
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return filepath.Join(p, DIR_PKG_INITIALIZER)
	}
	if ext := filepath.Ext(p); ext != "."+LANGUAGE_EXT {
		return strings.TrimSuffix(p, ext) + "." + LANGUAGE_EXT
	}
	return p
}

// isFile reports whether path names an existing regular file.
func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// PkgDir returns the per-user package directory (~/.krusty/pkg).
func PkgDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Generic("HOME dir not found")
	}
	return filepath.Join(home, INSTALL_FOLDER, INSTALL_SUBFOLDER), nil
}

// SearchModule locates a script module by logical name. The search
// order is: the current working directory, the path relative to the
// calling module (precomputed by the caller), then the per-user
// package directory. Each candidate goes through import path
// normalization first.
func SearchModule(name string, relative string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cand := NormalizeImportPath(filepath.Join(cwd, filepath.FromSlash(name)))
	if isFile(cand) {
		trace.Printf("import %s: current dir", name)
		return cand, nil
	}

	cand = NormalizeImportPath(relative)
	if isFile(cand) {
		trace.Printf("import %s: relative dir", name)
		return cand, nil
	}

	if pkgDir, err := PkgDir(); err == nil {
		cand = NormalizeImportPath(filepath.Join(pkgDir, filepath.FromSlash(name)))
		if isFile(cand) {
			trace.Printf("import %s: pkg dir", name)
			return cand, nil
		}
	}

	return "", errors.Import("'%s' Not found", name)
}

// NativeLibName converts a path into the platform-specific dynamic
// library filename: name.dll on Windows, libname.dylib on macOS and
// libname.so elsewhere.
func NativeLibName(p string) string {
	dir, fname := filepath.Split(p)
	switch runtime.GOOS {
	case "windows":
		if !strings.HasSuffix(fname, ".dll") {
			fname += ".dll"
		}
	case "darwin":
		if !strings.HasPrefix(fname, "lib") {
			fname = "lib" + fname
		}
		if !strings.HasSuffix(fname, ".dylib") {
			fname += ".dylib"
		}
	default:
		if !strings.HasPrefix(fname, "lib") {
			fname = "lib" + fname
		}
		if !strings.HasSuffix(fname, ".so") {
			fname += ".so"
		}
	}
	return filepath.Join(dir, fname)
}

// copyFile copies a single file, creating the destination directory.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Generic("%v", err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Generic("%v", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return errors.Generic("%v", err)
	}
	return nil
}

// copyDir copies a directory tree.
func copyDir(from, to string) error {
	return filepath.WalkDir(from, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(from, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(to, rel)
		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		fmt.Printf("  copy: %s -> %s\n", path, dest)
		return copyFile(path, dest)
	})
}

// Install copies a package into the per-user package directory. Three
// shapes are accepted: a package directory (must contain the package
// initializer), a single language file, and a native library - the
// last gets a wrapper directory with a generated initializer that
// spills the native module.
func Install(path string) error {
	dstPath, err := PkgDir()
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		initFile := filepath.Join(path, DIR_PKG_INITIALIZER)
		if !isFile(initFile) {
			return errors.Generic("Package does not contain '%s'", DIR_PKG_INITIALIZER)
		}
		return copyDir(path, filepath.Join(dstPath, filepath.Base(path)))
	}

	if !isFile(path) {
		return errors.Generic("'%s' Not found", path)
	}

	fname := filepath.Base(path)
	if filepath.Ext(fname) == "."+LANGUAGE_EXT {
		fmt.Printf("  copy: %s\n", fname)
		return copyFile(path, filepath.Join(dstPath, fname))
	}

	// a native library: wrap it in a directory with an initializer
	stem := strings.TrimSuffix(fname, filepath.Ext(fname))
	stem = strings.TrimPrefix(stem, "lib")
	wrapDir := filepath.Join(dstPath, stem)
	if err := os.MkdirAll(wrapDir, 0o755); err != nil {
		return errors.Generic("%v", err)
	}
	init := dylibInitComment + fmt.Sprintf("spill(import_native(%q))\n", stem)
	if err := os.WriteFile(filepath.Join(wrapDir, DIR_PKG_INITIALIZER), []byte(init), 0o644); err != nil {
		return errors.Generic("%v", err)
	}
	fmt.Printf("  create: %s\n", DIR_PKG_INITIALIZER)
	fmt.Printf("  copy: %s\n", fname)
	return copyFile(path, filepath.Join(wrapDir, fname))
}
