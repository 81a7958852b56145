package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "audio-transcriber/internal/app/errors"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	return s
}

func TestFileStore_PersistRetrieveDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	loc, err := s.Persist(ctx, "job-1.txt", []byte("Hello world"))
	require.NoError(t, err)
	assert.Equal(t, Location("job-1.txt"), loc)
	assert.True(t, s.Exists(loc))

	data, err := s.Retrieve(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", string(data))

	// overwrite is atomic and complete
	_, err = s.Persist(ctx, "job-1.txt", []byte("second"))
	require.NoError(t, err)
	data, err = s.Retrieve(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	require.NoError(t, s.Delete(ctx, loc))
	assert.False(t, s.Exists(loc))

	// idempotent
	require.NoError(t, s.Delete(ctx, loc))

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files may be left behind")
}

func TestFileStore_RetrieveNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, os.Mkdir(filepath.Join(s.Root(), "dir"), 0o755))

	tests := []struct {
		name string
		loc  Location
	}{
		{name: "missing", loc: "nope.txt"},
		{name: "empty", loc: ""},
		{name: "traversal", loc: "../secret.txt"},
		{name: "absolute", loc: "/etc/passwd"},
		{name: "unclean", loc: "a//b.txt"},
		{name: "directory", loc: "dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Retrieve(ctx, tt.loc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrNotFound), "got %v", err)
			assert.False(t, errors.Is(err, apperrors.ErrStore))
		})
	}
}

func TestFileStore_PersistRejectsInvalidKeys(t *testing.T) {
	s := newTestStore(t)

	for _, key := range []string{"", "../x", "/abs", `a\b`, "./x"} {
		_, err := s.Persist(context.Background(), key, []byte("x"))
		require.Error(t, err, key)
		assert.True(t, errors.Is(err, apperrors.ErrStore), key)
	}
}

func TestFileStore_CreateIsExclusive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Create(ctx, "upload", []byte("first"))
	require.NoError(t, err)

	_, err = s.Create(ctx, "upload", []byte("second"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrExist))

	data, err := s.Retrieve(ctx, "upload")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestFileStore_ConcurrentCreateOnlyOneWins(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Create(ctx, "same-key", []byte("x")); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestFileStore_Locate(t *testing.T) {
	s := newTestStore(t)

	loc, err := s.Locate("job.wav")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root(), "job.wav"), s.Path(loc))
	assert.False(t, s.Exists(loc))

	_, err = s.Locate("../job.wav")
	assert.Error(t, err)
}

func TestMapMinioError(t *testing.T) {
	notFound := mapMinioError(minio.ErrorResponse{Code: "NoSuchKey"}, "job.txt")
	assert.True(t, errors.Is(notFound, apperrors.ErrNotFound))

	other := mapMinioError(minio.ErrorResponse{Code: "AccessDenied"}, "job.txt")
	assert.True(t, errors.Is(other, apperrors.ErrStore))

	plain := mapMinioError(errors.New("connection reset"), "job.txt")
	assert.True(t, errors.Is(plain, apperrors.ErrStore))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/plain; charset=utf-8", contentType("a.txt"))
	assert.Equal(t, "text/vtt; charset=utf-8", contentType("a.vtt"))
	assert.Equal(t, "audio/wav", contentType("a.wav"))
	assert.Equal(t, "application/octet-stream", contentType("a.m4a"))
}
