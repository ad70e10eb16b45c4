/*
File    : krusty-go/pkg/pkg_test.go
Author  : krusty-lang developers
*/
package pkg

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krusty-lang/krusty-go/errors"
)

func TestNormalizeImportPath(t *testing.T) {
	assert.Equal(t, "mod.krt", NormalizeImportPath("mod"))
	assert.Equal(t, "mod.krt", NormalizeImportPath("mod.krt"))
	assert.Equal(t, "mod.krt", NormalizeImportPath("mod.txt"), "foreign extensions are replaced")

	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, DIR_PKG_INITIALIZER), NormalizeImportPath(dir),
		"directories import through their initializer")
}

func TestNativeLibName(t *testing.T) {
	got := NativeLibName(filepath.Join("some", "dir", "os"))
	base := filepath.Base(got)
	switch runtime.GOOS {
	case "windows":
		assert.Equal(t, "os.dll", base)
	case "darwin":
		assert.Equal(t, "libos.dylib", base)
	default:
		assert.Equal(t, "libos.so", base)
	}
	assert.Equal(t, filepath.Join("some", "dir"), filepath.Dir(got))

	// an already well-formed name is left alone
	again := NativeLibName(got)
	assert.Equal(t, base, filepath.Base(again))
}

func TestSearchModule_RelativeHit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mymod.krt")
	assert.NoError(t, os.WriteFile(path, []byte("a = 1;"), 0o644))

	got, err := SearchModule("mymod", filepath.Join(dir, "mymod"))
	assert.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestSearchModule_PkgDirHit(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	pkgDir, err := PkgDir()
	assert.NoError(t, err)
	assert.NoError(t, os.MkdirAll(pkgDir, 0o755))
	path := filepath.Join(pkgDir, "shared.krt")
	assert.NoError(t, os.WriteFile(path, []byte("a = 1;"), 0o644))

	got, err := SearchModule("shared", filepath.Join(t.TempDir(), "shared"))
	assert.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestSearchModule_NotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := SearchModule("no_such_module", filepath.Join(t.TempDir(), "no_such_module"))
	assert.Error(t, err)
	assert.Equal(t, errors.IMPORT_ERROR, errors.KindOf(err))
}

func TestInstall_ScriptFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	src := filepath.Join(t.TempDir(), "util.krt")
	assert.NoError(t, os.WriteFile(src, []byte("a = 1;"), 0o644))

	assert.NoError(t, Install(src))

	pkgDir, _ := PkgDir()
	installed, err := os.ReadFile(filepath.Join(pkgDir, "util.krt"))
	assert.NoError(t, err)
	assert.Equal(t, "a = 1;", string(installed))
}

func TestInstall_PackageDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	srcDir := filepath.Join(t.TempDir(), "toolbox")
	assert.NoError(t, os.MkdirAll(srcDir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(srcDir, DIR_PKG_INITIALIZER), []byte("a = 1;"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(srcDir, "extra.krt"), []byte("b = 2;"), 0o644))

	assert.NoError(t, Install(srcDir))

	pkgDir, _ := PkgDir()
	assert.FileExists(t, filepath.Join(pkgDir, "toolbox", DIR_PKG_INITIALIZER))
	assert.FileExists(t, filepath.Join(pkgDir, "toolbox", "extra.krt"))
}

func TestInstall_DirectoryWithoutInitializerFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	srcDir := filepath.Join(t.TempDir(), "plain")
	assert.NoError(t, os.MkdirAll(srcDir, 0o755))
	err := Install(srcDir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), DIR_PKG_INITIALIZER)
}

func TestInstall_NativeLibraryGetsWrapper(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	src := filepath.Join(t.TempDir(), "libos.so")
	assert.NoError(t, os.WriteFile(src, []byte{0x7f}, 0o644))

	assert.NoError(t, Install(src))

	pkgDir, _ := PkgDir()
	wrapDir := filepath.Join(pkgDir, "os")
	assert.FileExists(t, filepath.Join(wrapDir, "libos.so"))

	init, err := os.ReadFile(filepath.Join(wrapDir, DIR_PKG_INITIALIZER))
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(init), `spill(import_native("os"))`), "initializer spills the native module")
}
