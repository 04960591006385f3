// Package patch applies recipe patches to an extracted source tree.
package patch

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Patcher = (*Patcher)(nil)

// Patcher implements ports.Patcher.
//
// Every patch is computed against an in-memory overlay of the tree. Files are
// only written once the whole set applied, and already written files are
// restored if a later write fails.
type Patcher struct {
	logger ports.Logger
}

// NewPatcher creates a new Patcher.
func NewPatcher(logger ports.Logger) *Patcher {
	return &Patcher{logger: logger}
}

// change is the pending content of one file. A nil content deletes the file.
type change struct {
	path    string
	content []byte
	mode    fs.FileMode
}

type overlay struct {
	root    string
	order   []string
	changes map[string]*change
}

func newOverlay(root string) *overlay {
	return &overlay{root: root, changes: make(map[string]*change)}
}

// read returns the current content of rel, honoring pending changes.
func (o *overlay) read(rel string) ([]byte, fs.FileMode, bool, error) {
	if c, ok := o.changes[rel]; ok {
		return c.content, c.mode, c.content != nil, nil
	}

	path := filepath.Join(o.root, rel)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}
	data, err := os.ReadFile(path) //nolint:gosec // Path is below the source root
	if err != nil {
		return nil, 0, false, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	return data, info.Mode().Perm(), true, nil
}

func (o *overlay) set(rel string, content []byte, mode fs.FileMode) {
	if mode == 0 {
		mode = domain.FilePerm
	}
	if _, ok := o.changes[rel]; !ok {
		o.order = append(o.order, rel)
	}
	o.changes[rel] = &change{path: rel, content: content, mode: mode}
}

// Apply applies patches to the tree at root in order.
func (p *Patcher) Apply(root string, patches []domain.Patch) error {
	if len(patches) == 0 {
		return nil
	}

	tree := newOverlay(root)
	for i, patch := range patches {
		var err error
		switch patch.Kind {
		case domain.PatchReplace:
			err = p.replace(tree, patch)
		case domain.PatchDiff:
			err = p.diff(tree, patch)
		default:
			err = zerr.With(zerr.Wrap(domain.ErrPatchApplyFailed, "unknown patch kind"), "kind", string(patch.Kind))
		}
		if err != nil {
			err = zerr.With(err, "patch", strconv.Itoa(i+1))
			if patch.Description != "" {
				err = zerr.With(err, "description", patch.Description)
			}
			return err
		}
	}

	if err := commit(tree); err != nil {
		return err
	}

	for _, patch := range patches {
		if patch.Description != "" {
			p.logger.Info("applied patch: " + patch.Description)
		}
	}
	return nil
}

func (p *Patcher) replace(tree *overlay, patch domain.Patch) error {
	rel, err := relPath(patch.File)
	if err != nil {
		return err
	}

	content, mode, ok, err := tree.read(rel)
	if err != nil {
		return err
	}
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrSourceFileMissing, "patched file does not exist"), "file", patch.File)
	}

	switch n := bytes.Count(content, []byte(patch.Anchor)); {
	case patch.Anchor == "" || n == 0:
		return zerr.With(zerr.Wrap(domain.ErrPatchAnchorNotFound, "anchor text not found"), "file", patch.File)
	case n > 1:
		err := zerr.Wrap(domain.ErrPatchAnchorAmbiguous, "anchor text occurs more than once")
		return zerr.With(zerr.With(err, "file", patch.File), "occurrences", n)
	}

	tree.set(rel, bytes.Replace(content, []byte(patch.Anchor), []byte(patch.Replacement), 1), mode)
	return nil
}

func (p *Patcher) diff(tree *overlay, patch domain.Patch) error {
	files, _, err := gitdiff.Parse(strings.NewReader(patch.Diff))
	if err != nil {
		return zerr.Wrap(err, domain.ErrPatchParseFailed.Error())
	}
	if len(files) == 0 {
		return zerr.Wrap(domain.ErrPatchParseFailed, "diff contains no files")
	}

	for _, file := range files {
		if file.IsBinary {
			return zerr.With(zerr.Wrap(domain.ErrPatchApplyFailed, "binary diffs are not supported"), "file", file.NewName)
		}

		oldRel, newRel, err := p.diffPaths(tree, patch.BasePath, file)
		if err != nil {
			return err
		}

		var src []byte
		var mode fs.FileMode = domain.FilePerm
		if !file.IsNew {
			content, m, ok, err := tree.read(oldRel)
			if err != nil {
				return err
			}
			if !ok {
				return zerr.With(zerr.Wrap(domain.ErrSourceFileMissing, "patched file does not exist"), "file", oldRel)
			}
			src, mode = content, m
		}

		var out bytes.Buffer
		if err := gitdiff.Apply(&out, bytes.NewReader(src), file); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrPatchApplyFailed.Error()), "file", filepath.ToSlash(oldRel))
		}

		if file.IsDelete {
			tree.set(oldRel, nil, mode)
			continue
		}
		if file.NewMode != 0 {
			mode = file.NewMode.Perm()
		}
		if oldRel != newRel && oldRel != "" {
			tree.set(oldRel, nil, mode)
		}
		tree.set(newRel, append([]byte{}, out.Bytes()...), mode)
	}
	return nil
}

// diffPaths resolves the old and new names of a diff entry below base. Names in
// traditional unified diffs keep their a/ and b/ prefixes, which are dropped
// when the prefixed path does not exist.
func (p *Patcher) diffPaths(tree *overlay, base string, file *gitdiff.File) (string, string, error) {
	resolve := func(name string) (string, error) {
		if name == "" {
			return "", nil
		}
		rel, err := relPath(filepath.Join(base, name))
		if err != nil {
			return "", err
		}
		if _, _, ok, _ := tree.read(rel); ok {
			return rel, nil
		}
		for _, prefix := range []string{"a/", "b/"} {
			if stripped, found := strings.CutPrefix(name, prefix); found {
				return relPath(filepath.Join(base, stripped))
			}
		}
		return rel, nil
	}

	oldRel, err := resolve(file.OldName)
	if err != nil {
		return "", "", err
	}
	newRel, err := resolve(file.NewName)
	if err != nil {
		return "", "", err
	}
	if newRel == "" {
		newRel = oldRel
	}
	return oldRel, newRel, nil
}

// relPath cleans a patch path and rejects paths leaving the source root.
func relPath(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", zerr.With(zerr.Wrap(domain.ErrPatchApplyFailed, "path escapes source root"), "file", name)
	}
	return clean, nil
}
