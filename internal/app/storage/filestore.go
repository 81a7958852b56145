package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/util/files"
)

// FileStore keeps artifacts as files under a root directory.
// External tools read and write its artifacts through Path.
type FileStore struct {
	root string
}

// NewFileStore creates the root directory if needed.
func NewFileStore(root string) (*FileStore, error) {
	abs, err := files.GetAbsolutePath(root)
	if err != nil {
		return nil, apperrors.Store(err, "failed to resolve store root %s", root)
	}
	if err := files.EnsureDir(abs); err != nil {
		return nil, apperrors.Store(err, "failed to prepare store root")
	}
	return &FileStore{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *FileStore) Root() string {
	return s.root
}

// Path returns the filesystem path of loc. loc must be a valid key.
func (s *FileStore) Path(loc Location) string {
	return filepath.Join(s.root, filepath.FromSlash(string(loc)))
}

// Locate returns the location for key without touching the filesystem.
func (s *FileStore) Locate(key string) (Location, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	return Location(key), nil
}

// Persist writes data atomically, replacing any previous content at key.
func (s *FileStore) Persist(ctx context.Context, key string, data []byte) (Location, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	loc := Location(key)
	target := s.Path(loc)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", apperrors.Store(err, "failed to create directory for %s", key)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return "", apperrors.Store(err, "failed to create temp file for %s", key)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", apperrors.Store(err, "failed to write %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", apperrors.Store(err, "failed to close %s", key)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", apperrors.Store(err, "failed to move %s into place", key)
	}
	return loc, nil
}

// Create writes data to key only if nothing exists there yet.
// It returns an error matching fs.ErrExist on collision, and removes any
// partial file on failure.
func (s *FileStore) Create(ctx context.Context, key string, data []byte) (Location, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	loc := Location(key)
	target := s.Path(loc)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", apperrors.Store(err, "failed to create directory for %s", key)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", err
		}
		return "", apperrors.Store(err, "failed to create %s", key)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(target)
		return "", apperrors.Store(err, "failed to write %s", key)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", apperrors.Store(err, "failed to close %s", key)
	}
	return loc, nil
}

// Retrieve reads the artifact at loc.
func (s *FileStore) Retrieve(ctx context.Context, loc Location) ([]byte, error) {
	if !validKey(string(loc)) {
		return nil, apperrors.NotFound("artifact", string(loc))
	}
	data, err := os.ReadFile(s.Path(loc))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NotFound("artifact", string(loc))
		}
		if isDirError(s.Path(loc)) {
			return nil, apperrors.NotFound("artifact", string(loc))
		}
		return nil, apperrors.Store(err, "failed to read %s", loc)
	}
	return data, nil
}

// Exists reports whether an artifact is stored at loc.
func (s *FileStore) Exists(loc Location) bool {
	if !validKey(string(loc)) {
		return false
	}
	info, err := os.Stat(s.Path(loc))
	return err == nil && info.Mode().IsRegular()
}

// Delete removes the artifact at loc. Missing artifacts are not an error.
func (s *FileStore) Delete(ctx context.Context, loc Location) error {
	if !validKey(string(loc)) {
		return nil
	}
	if err := os.Remove(s.Path(loc)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.Store(err, "failed to delete %s", loc)
	}
	return nil
}

func isDirError(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
