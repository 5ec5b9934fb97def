// Package cas stores the build info used to skip unchanged documents.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore with one JSON file per document
// below <root>/.texbox/store.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the build info for a document. It returns nil, nil when the
// document was never built.
func (s *Store) Get(root, document string) (*domain.BuildInfo, error) {
	filename := s.filename(root, document)
	//nolint:gosec // Path is constructed from the project root and a hashed name
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, storeError(domain.ErrStoreReadFailed, err, filename)
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, storeError(domain.ErrStoreUnmarshalFailed, err, filename)
	}

	return &info, nil
}

// Put stores the build info, replacing the previous record atomically.
func (s *Store) Put(root string, info domain.BuildInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return storeError(domain.ErrStoreMarshalFailed, err, info.Document)
	}

	filename := s.filename(root, info.Document)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return storeError(domain.ErrStoreCreateFailed, err, dir)
	}

	tmp, err := os.CreateTemp(dir, ".build-info-*")
	if err != nil {
		return storeError(domain.ErrStoreWriteFailed, err, dir)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return storeError(domain.ErrStoreWriteFailed, err, filename)
	}
	if err := tmp.Close(); err != nil {
		return storeError(domain.ErrStoreWriteFailed, err, filename)
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return storeError(domain.ErrStoreWriteFailed, err, filename)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return storeError(domain.ErrStoreWriteFailed, err, filename)
	}

	return nil
}

func (s *Store) filename(root, document string) string {
	hash := sha256.Sum256([]byte(document))
	return filepath.Join(root, domain.DefaultStorePath(), hex.EncodeToString(hash[:])+".json")
}

func storeError(sentinel, err error, path string) error {
	return zerr.With(zerr.Wrap(errors.Join(sentinel, err), "build info store"), "path", path)
}
