// Package cas implements the package info store.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.PackageStore using a file-per-reference strategy.
// Access is serialized so that concurrent recipe runs can share one store.
type Store struct {
	mu sync.Mutex
}

var _ ports.PackageStore = (*Store)(nil)

// NewStore creates a new package store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the package info for a given reference.
func (s *Store) Get(root string, ref domain.Ref) (*domain.PackageInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filename := s.getFilename(root, ref.String())
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var info domain.PackageInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "ref", ref.String())
	}

	return &info, nil
}

// Put stores the package info, replacing any previous record for the same reference.
func (s *Store) Put(root string, info domain.PackageInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filename := s.getFilename(root, info.Ref)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmp, err := os.CreateTemp(dir, ".pkg-*.json")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

func (s *Store) getFilename(root, ref string) string {
	hash := sha256.Sum256([]byte(ref))
	hexHash := hex.EncodeToString(hash[:])
	return filepath.Join(root, hexHash+".json")
}
