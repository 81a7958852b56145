// Package storage persists the named byte artifacts a transcription job
// produces: staged uploads, intermediate waveforms and caption tracks, and
// final transcripts.
package storage

import (
	"context"
	"path"
	"strings"

	apperrors "audio-transcriber/internal/app/errors"
)

// Location identifies an artifact within one store. It is the artifact key,
// never an absolute filesystem path.
type Location string

// String implements fmt.Stringer.
func (l Location) String() string {
	return string(l)
}

// Store persists and retrieves artifacts.
//
// Retrieve fails with an error matching errors.ErrNotFound when nothing is
// stored at the location. Delete never fails for a missing artifact.
type Store interface {
	Persist(ctx context.Context, key string, data []byte) (Location, error)
	Retrieve(ctx context.Context, loc Location) ([]byte, error)
	Delete(ctx context.Context, loc Location) error
}

// validKey reports whether key is a relative, traversal-free artifact key.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.ContainsRune(key, '\\') || strings.ContainsRune(key, 0) {
		return false
	}
	if path.Clean(key) != key {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return false
		}
	}
	return true
}

func checkKey(key string) error {
	if !validKey(key) {
		return apperrors.Store(nil, "invalid artifact key %q", key)
	}
	return nil
}
