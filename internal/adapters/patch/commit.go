package patch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// backup is the state of a file before it was written.
type backup struct {
	path    string
	existed bool
	content []byte
	mode    fs.FileMode
}

// commit writes every pending change. On failure the files written so far are
// put back the way they were.
func commit(tree *overlay) error {
	done := make([]backup, 0, len(tree.order))

	for _, rel := range tree.order {
		c := tree.changes[rel]
		path := filepath.Join(tree.root, rel)

		prev, err := snapshot(path)
		if err != nil {
			rollback(done)
			return err
		}

		if err := write(path, c); err != nil {
			rollback(append(done, prev))
			return zerr.With(zerr.Wrap(err, domain.ErrPatchWriteFailed.Error()), "file", filepath.ToSlash(rel))
		}
		done = append(done, prev)
	}
	return nil
}

func snapshot(path string) (backup, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return backup{path: path}, nil
	}
	if err != nil {
		return backup{}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}
	data, err := os.ReadFile(path) //nolint:gosec // Path is below the source root
	if err != nil {
		return backup{}, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	return backup{path: path, existed: true, content: data, mode: info.Mode().Perm()}, nil
}

func write(path string, c *change) error {
	if c.content == nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".kiln-patch-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(c.content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, c.mode); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// rollback restores backups in reverse order. Restoring is best effort.
func rollback(done []backup) {
	for i := len(done) - 1; i >= 0; i-- {
		b := done[i]
		if !b.existed {
			_ = os.Remove(b.path)
			continue
		}
		_ = os.WriteFile(b.path, b.content, b.mode)
		_ = os.Chmod(b.path, b.mode)
	}
}
