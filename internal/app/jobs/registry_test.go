package jobs

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/model"
)

func seedJobs(t *testing.T, r Registry, n int) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		job := model.NewJob(fmt.Sprintf("job-%d", i), "a.m4a", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, r.Put(context.Background(), job.Snapshot()))
	}
}

func registryContract(t *testing.T, newRegistry func(t *testing.T) Registry) {
	ctx := context.Background()

	t.Run("get_missing", func(t *testing.T) {
		r := newRegistry(t)
		_, err := r.Get(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("put_overwrites", func(t *testing.T) {
		r := newRegistry(t)
		job := model.NewJob("job-1", "talk.m4a", time.Now().UTC())
		require.NoError(t, r.Put(ctx, job.Snapshot()))

		require.NoError(t, job.Transition(model.JobStateConverting, time.Now().UTC()))
		job.SetArtifact(model.ArtifactStagedInput, "job-1")
		require.NoError(t, job.Fail(apperrors.Conversion(nil, "bad input"), time.Now().UTC()))
		require.NoError(t, r.Put(ctx, job.Snapshot()))

		got, err := r.Get(ctx, "job-1")
		require.NoError(t, err)
		assert.Equal(t, model.JobStateFailed, got.State)
		require.NotNil(t, got.Failure)
		assert.Equal(t, model.JobStateConverting, got.Failure.Stage)
		assert.Equal(t, "bad input", got.Failure.Message)
		assert.Equal(t, "job-1", got.Artifacts[model.ArtifactStagedInput])
	})

	t.Run("list_newest_first", func(t *testing.T) {
		r := newRegistry(t)
		seedJobs(t, r, 3)

		all, err := r.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "job-2", all[0].ID)
		assert.Equal(t, "job-0", all[2].ID)

		two, err := r.List(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, two, 2)
	})
}

func TestMemoryRegistry(t *testing.T) {
	registryContract(t, func(t *testing.T) Registry { return NewMemoryRegistry() })
}

func TestMemoryRegistry_SnapshotsAreIsolated(t *testing.T) {
	r := NewMemoryRegistry()
	job := model.NewJob("job-1", "a.m4a", time.Now())
	require.NoError(t, r.Put(context.Background(), job.Snapshot()))

	got, err := r.Get(context.Background(), "job-1")
	require.NoError(t, err)
	got.Artifacts[model.ArtifactWaveform] = "mutated"

	again, err := r.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.NotContains(t, again.Artifacts, model.ArtifactWaveform)
}

func TestRedisRegistry(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis registry tests")
	}

	registryContract(t, func(t *testing.T) Registry {
		client, err := DialRedis(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), 0)
		require.NoError(t, err)
		prefix := "test:" + uuid.NewString() + ":"
		t.Cleanup(func() {
			ctx := context.Background()
			keys, _ := client.Keys(ctx, prefix+"*").Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
			client.Close()
		})
		return NewRedisRegistry(client, prefix, time.Minute)
	})
}

func TestDecodeJob(t *testing.T) {
	job, err := decodeJob([]byte(`{"id":"x","state":"stored"}`))
	require.NoError(t, err)
	assert.Equal(t, model.JobStateStored, job.State)
	assert.NotNil(t, job.Artifacts)

	_, err = decodeJob([]byte(`{`))
	assert.ErrorIs(t, err, apperrors.ErrStore)
}
