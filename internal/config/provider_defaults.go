package config

import "time"

// Default configuration constants
const (
	// Storage defaults
	DefaultStagingDir   = "./uploads"
	DefaultOutputDir    = "./outputs"
	DefaultStoreBackend = "file"
	DefaultMinioBucket  = "transcripts"

	// Tool defaults
	DefaultFFmpegPath  = "ffmpeg"
	DefaultFFprobePath = "ffprobe"
	DefaultCaptioner   = "ffmpeg"

	// Pipeline defaults
	DefaultStageTimeout   = 15 * time.Minute
	DefaultMaxAttempts    = 1
	DefaultRetryBackoff   = 2 * time.Second
	DefaultMaxUploadBytes = 512 << 20

	// Record and registry defaults
	DefaultRecordBackend   = "sqlite"
	DefaultSQLitePath      = "./data/transcripts.db"
	DefaultRegistryBackend = "memory"
	DefaultRedisAddr       = "localhost:6379"
	DefaultRegistryTTL     = 24 * time.Hour

	// Network defaults
	DefaultHTTPHost = "0.0.0.0"
	DefaultHTTPPort = 3000

	// Temporal defaults
	DefaultTemporalHost = "localhost:7233"
	DefaultNamespace    = "default"
	DefaultTaskQueue    = "transcription-queue"

	// Model defaults
	DefaultOpenAIModel  = "whisper-1"
	DefaultWhisperModel = "ggml-base.en.bin"
)
