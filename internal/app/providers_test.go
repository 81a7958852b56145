package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"audio-transcriber/internal/app/jobs"
	"audio-transcriber/internal/app/model"
	"audio-transcriber/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.StagingDir = filepath.Join(dir, "uploads")
	cfg.Storage.OutputDir = filepath.Join(dir, "outputs")
	cfg.Records.SQLitePath = filepath.Join(dir, "data", "transcripts.db")
	return cfg
}

func TestInitializeApp(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	app, cleanup, err := InitializeApp(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, app.Orchestrator)
	assert.Same(t, cfg, app.Config)
	assert.DirExists(t, cfg.Storage.StagingDir)
	assert.FileExists(t, cfg.Records.SQLitePath)

	require.NoError(t, app.Records.Record(ctx, model.TranscriptRecord{
		JobID: "job-1", OriginalName: "a.m4a", Location: "job-1.txt", CreatedAt: time.Now(),
	}))
	records, err := app.Orchestrator.Transcripts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	families, err := app.Metrics.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestInitializeApp_UnknownCaptioner(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tools.Captioner = "nope"

	_, _, err := InitializeApp(context.Background(), cfg, zap.NewNop())

	assert.ErrorContains(t, err, "not registered")
}

func TestOpenRecords_UnknownBackend(t *testing.T) {
	_, _, err := OpenRecords(context.Background(), "mongo", config.RecordsConfig{})
	assert.Error(t, err)
}

func TestProvideRegistry_Memory(t *testing.T) {
	reg, cleanup, err := provideRegistry(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &jobs.MemoryRegistry{}, reg)
}

func TestPipelineOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.MaxConcurrency = 3
	cfg.Pipeline.MaxAttempts = 2

	opts := PipelineOptions(cfg)

	assert.Equal(t, 3, opts.MaxConcurrency)
	assert.Equal(t, 2, opts.MaxAttempts)
	assert.Equal(t, cfg.Pipeline.StageTimeout, opts.StageTimeout)
}
