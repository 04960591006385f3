package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func relFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	for path := range fs.NewWalker().WalkFiles(root) {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		files = append(files, filepath.ToSlash(rel))
	}
	return files
}

func TestWalker_WalkFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "CMakeLists.txt"), "project(x)")
	writeFile(t, filepath.Join(root, "src", "C++", "Except.h"), "#pragma once")
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/master")
	writeFile(t, filepath.Join(root, "vendor", ".jj", "repo"), "")
	writeFile(t, filepath.Join(root, "vendor", "fmt", "core.h"), "")

	files := relFiles(t, root)

	assert.Equal(t, []string{"CMakeLists.txt", "src/C++/Except.h", "vendor/fmt/core.h"}, files)
}

func TestWalker_WalkFiles_EarlyStop(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(root, name), name)
	}

	var seen []string
	for path := range fs.NewWalker().WalkFiles(root) {
		seen = append(seen, filepath.Base(path))
		break
	}
	assert.Equal(t, []string{"a"}, seen)
}
