package fs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Packager = (*Packager)(nil)

// libraryPattern matches the library file types a consumer links against.
const libraryPattern = "*.{a,lib,so,dylib,bc}"

// Packager implements the file operations of the packaging stage.
type Packager struct {
	walker *Walker
}

// NewPackager creates a new Packager.
func NewPackager(walker *Walker) *Packager {
	return &Packager{walker: walker}
}

// CopyFile copies a single file, creating parent directories of to.
func (p *Packager) CopyFile(from, to string) error {
	if _, err := os.Stat(from); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrSourceFileMissing, "file to copy does not exist"), "path", from)
	}
	if err := copyFile(from, to); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrPackageCopyFailed.Error()), "from", from), "to", to)
	}
	return nil
}

// Copy copies the files below rule.Src matching rule.Pattern into rule.Dst, keeping
// their path relative to rule.Src. No match is not an error.
func (p *Packager) Copy(rule domain.CopyRule, srcRoot, dstRoot string) ([]string, error) {
	src := filepath.Join(srcRoot, filepath.FromSlash(rule.Src))
	dst := filepath.Join(dstRoot, filepath.FromSlash(rule.Dst))

	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", src)
	}

	matches, err := doublestar.Glob(os.DirFS(src), rule.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPackageCopyFailed.Error()), "pattern", rule.Pattern)
	}

	copied := make([]string, 0, len(matches))
	for _, match := range matches {
		to := filepath.Join(dst, filepath.FromSlash(match))
		if err := p.CopyFile(filepath.Join(src, filepath.FromSlash(match)), to); err != nil {
			return copied, err
		}
		copied = append(copied, to)
	}
	return copied, nil
}

// Prune removes dirs below root and verifies that none of them remain.
func (p *Packager) Prune(root string, dirs []string) error {
	for _, dir := range dirs {
		target, err := within(root, dir)
		if err != nil {
			return err
		}
		if err := os.RemoveAll(target); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrPruneFailed.Error()), "path", target)
		}
	}

	for _, dir := range dirs {
		target, _ := within(root, dir)
		if _, err := os.Lstat(target); err == nil {
			return zerr.With(zerr.Wrap(domain.ErrPrunedDirPresent, "directory survived pruning"), "path", dir)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", target)
		}
	}
	return nil
}

// CollectLibs returns the sorted library names found directly in root/lib.
// The "lib" prefix is stripped from everything except MSVC import libraries.
func (p *Packager) CollectLibs(root string) ([]string, error) {
	libDir := filepath.Join(root, domain.LibDir)
	if _, err := os.Stat(libDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", libDir)
	}

	matches, err := doublestar.Glob(os.DirFS(libDir), libraryPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", libDir)
	}

	libs := make([]string, 0, len(matches))
	for _, match := range matches {
		ext := filepath.Ext(match)
		name := strings.TrimSuffix(match, ext)
		if ext != ".lib" {
			name = strings.TrimPrefix(name, "lib")
		}
		if name != "" && !slices.Contains(libs, name) {
			libs = append(libs, name)
		}
	}
	slices.Sort(libs)
	return libs, nil
}

// Promote replaces final with the staged tree. Rename is tried first; trees on
// another device are copied.
func (p *Packager) Promote(staging, final string) error {
	if err := os.RemoveAll(final); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPackagePromoteFailed.Error()), "path", final)
	}
	if err := os.MkdirAll(filepath.Dir(final), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPackagePromoteFailed.Error()), "path", final)
	}
	if err := os.Rename(staging, final); err == nil {
		return nil
	}

	for path := range p.walker.WalkFiles(staging) {
		rel, err := filepath.Rel(staging, path)
		if err != nil {
			return zerr.Wrap(err, domain.ErrPackagePromoteFailed.Error())
		}
		if err := copyFile(path, filepath.Join(final, rel)); err != nil {
			_ = os.RemoveAll(final)
			return zerr.With(zerr.Wrap(err, domain.ErrPackagePromoteFailed.Error()), "path", path)
		}
	}
	if err := os.RemoveAll(staging); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPackagePromoteFailed.Error()), "path", staging)
	}
	return nil
}

// within joins rel onto root and rejects results outside root.
func within(root, rel string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(rel))
	r, err := filepath.Rel(root, target)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", zerr.With(zerr.Wrap(domain.ErrPruneFailed, "path escapes package root"), "path", rel)
	}
	return target, nil
}

func copyFile(from, to string) error {
	info, err := os.Stat(from)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(to), domain.DirPerm); err != nil {
		return err
	}

	in, err := os.Open(from) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Read-only handle

	out, err := os.OpenFile(to, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm()) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
