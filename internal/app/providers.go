package app

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"audio-transcriber/internal/app/api"
	"audio-transcriber/internal/app/audio"
	"audio-transcriber/internal/app/jobs"
	"audio-transcriber/internal/app/pipeline"
	"audio-transcriber/internal/app/repository"
	"audio-transcriber/internal/app/repository/pg"
	"audio-transcriber/internal/app/repository/sqlite"
	"audio-transcriber/internal/app/storage"
	"audio-transcriber/internal/app/util/execx"
	"audio-transcriber/internal/config"
)

// App is the wired pipeline plus what the entry points need around it.
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *prometheus.Registry
	Orchestrator *pipeline.Orchestrator
	Records      repository.TranscriptDAO
}

func NewApp(cfg *config.Config, logger *zap.Logger, metrics *prometheus.Registry, orch *pipeline.Orchestrator, records repository.TranscriptDAO) *App {
	return &App{
		Config:       cfg,
		Logger:       logger,
		Metrics:      metrics,
		Orchestrator: orch,
		Records:      records,
	}
}

// ProviderSet builds an App from a validated configuration.
var ProviderSet = wire.NewSet(
	provideMetricsRegistry,
	provideMetrics,
	provideStaging,
	provideOutputStore,
	provideRecords,
	provideRegistry,
	provideToolchain,
	PipelineOptions,
	pipeline.New,
	NewApp,
)

func provideMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(reg *prometheus.Registry) *pipeline.Metrics {
	return pipeline.NewMetrics(reg)
}

func provideStaging(cfg *config.Config) (*storage.FileStore, error) {
	return storage.NewFileStore(cfg.Storage.StagingDir)
}

// provideOutputStore selects where finished transcripts live.
func provideOutputStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "minio":
		m := cfg.Storage.Minio
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			Prefix:    m.Prefix,
			UseSSL:    m.UseSSL,
		})
	default:
		return storage.NewFileStore(cfg.Storage.OutputDir)
	}
}

func provideRecords(ctx context.Context, cfg *config.Config) (repository.TranscriptDAO, func(), error) {
	return OpenRecords(ctx, cfg.Records.Backend, cfg.Records)
}

// OpenRecords opens the transcript record DAO of the given backend.
func OpenRecords(ctx context.Context, backend string, cfg config.RecordsConfig) (repository.TranscriptDAO, func(), error) {
	var (
		dao repository.TranscriptDAO
		err error
	)
	switch backend {
	case "postgres":
		dao, err = pg.Open(ctx, cfg.PostgresDSN)
	case "sqlite":
		dao, err = sqlite.NewSQLiteDB(ctx, cfg.SQLitePath)
	default:
		return nil, nil, fmt.Errorf("unknown record backend %q", backend)
	}
	if err != nil {
		return nil, nil, err
	}
	return dao, func() { _ = dao.Close() }, nil
}

func provideRegistry(ctx context.Context, cfg *config.Config) (jobs.Registry, func(), error) {
	if cfg.Registry.Backend != "redis" {
		return jobs.NewMemoryRegistry(), func() {}, nil
	}
	client, err := jobs.DialRedis(ctx, cfg.Registry.RedisAddr, cfg.Registry.RedisPassword, cfg.Registry.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return jobs.NewRedisRegistry(client, "", cfg.Registry.TTL), func() { _ = client.Close() }, nil
}

// provideToolchain pairs the ffmpeg resampler with the configured caption backend.
func provideToolchain(cfg *config.Config, logger *zap.Logger) (api.Toolchain, error) {
	runner := execx.NewExecRunner()
	ffmpeg := audio.NewFFmpeg(cfg.Tools.FFmpegPath, cfg.Tools.FFprobePath, runner, logger)

	captioner, err := api.NewCaptioner(cfg.Tools.Captioner, api.CaptionerSettings{
		FFmpegPath:      cfg.Tools.FFmpegPath,
		FFprobePath:     cfg.Tools.FFprobePath,
		WhisperBinary:   cfg.Tools.Whisper.Binary,
		WhisperModel:    cfg.Tools.Whisper.Model,
		WhisperLanguage: cfg.Tools.Whisper.Language,
		WhisperThreads:  cfg.Tools.Whisper.Threads,
		OpenAIAPIKey:    cfg.Tools.OpenAI.APIKey,
		OpenAIBaseURL:   cfg.Tools.OpenAI.BaseURL,
		OpenAIModel:     cfg.Tools.OpenAI.Model,
		OpenAILang:      cfg.Tools.OpenAI.Language,
		Runner:          runner,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	return api.Combine(ffmpeg, captioner), nil
}

// PipelineOptions maps the pipeline section onto orchestrator options.
func PipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		MaxConcurrency: cfg.Pipeline.MaxConcurrency,
		StageTimeout:   cfg.Pipeline.StageTimeout,
		MaxAttempts:    cfg.Pipeline.MaxAttempts,
		RetryBackoff:   cfg.Pipeline.RetryBackoff,
	}
}
