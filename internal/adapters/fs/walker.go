// Package fs provides file system adapters for walking, hashing and packaging files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// vcsDirs are never part of a source or package tree.
var vcsDirs = map[string]bool{".git": true, ".jj": true}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file below root in lexical order, skipping VCS
// metadata directories.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() && path != root && vcsDirs[d.Name()] {
				return filepath.SkipDir
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}
