package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "audio-transcriber/internal/app/errors"
)

// LoadEnv loads environment variables from the first .env file found and
// returns its path, or "" when there is none. Variables already set win.
func LoadEnv() (string, error) {
	// Try to load .env file from current directory or project root
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	// Look for .env file, but don't fail if not found (environment variables might be set system-wide)
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}

	return "", nil
}

// ApplyEnv overrides cfg with any variables that are set.
func ApplyEnv(cfg *Config) error {
	e := envReader{}

	e.str("TRANSCRIBER_STAGING_DIR", &cfg.Storage.StagingDir)
	e.str("TRANSCRIBER_OUTPUT_DIR", &cfg.Storage.OutputDir)
	e.str("TRANSCRIBER_STORE_BACKEND", &cfg.Storage.Backend)
	e.str("MINIO_ENDPOINT", &cfg.Storage.Minio.Endpoint)
	e.str("MINIO_ACCESS_KEY", &cfg.Storage.Minio.AccessKey)
	e.str("MINIO_SECRET_KEY", &cfg.Storage.Minio.SecretKey)
	e.str("MINIO_BUCKET", &cfg.Storage.Minio.Bucket)
	e.str("MINIO_PREFIX", &cfg.Storage.Minio.Prefix)
	e.boolean("MINIO_USE_SSL", &cfg.Storage.Minio.UseSSL)

	e.str("FFMPEG_PATH", &cfg.Tools.FFmpegPath)
	e.str("FFPROBE_PATH", &cfg.Tools.FFprobePath)
	e.str("TRANSCRIBER_CAPTIONER", &cfg.Tools.Captioner)
	e.str("WHISPER_CPP_BINARY", &cfg.Tools.Whisper.Binary)
	e.str("WHISPER_CPP_MODEL", &cfg.Tools.Whisper.Model)
	e.str("WHISPER_LANGUAGE", &cfg.Tools.Whisper.Language)
	e.integer("WHISPER_THREADS", &cfg.Tools.Whisper.Threads)
	e.str("OPENAI_API_KEY", &cfg.Tools.OpenAI.APIKey)
	e.str("OPENAI_BASE_URL", &cfg.Tools.OpenAI.BaseURL)
	e.str("OPENAI_TRANSCRIPTION_MODEL", &cfg.Tools.OpenAI.Model)

	e.integer("TRANSCRIBER_MAX_CONCURRENCY", &cfg.Pipeline.MaxConcurrency)
	e.duration("TRANSCRIBER_STAGE_TIMEOUT", &cfg.Pipeline.StageTimeout)
	e.integer("TRANSCRIBER_MAX_ATTEMPTS", &cfg.Pipeline.MaxAttempts)
	e.duration("TRANSCRIBER_RETRY_BACKOFF", &cfg.Pipeline.RetryBackoff)

	e.str("TRANSCRIBER_RECORD_BACKEND", &cfg.Records.Backend)
	e.str("TRANSCRIBER_SQLITE_PATH", &cfg.Records.SQLitePath)
	e.str("DATABASE_URL", &cfg.Records.PostgresDSN)

	e.str("TRANSCRIBER_REGISTRY", &cfg.Registry.Backend)
	e.str("REDIS_ADDR", &cfg.Registry.RedisAddr)
	e.str("REDIS_PASSWORD", &cfg.Registry.RedisPassword)
	e.integer("REDIS_DB", &cfg.Registry.RedisDB)

	e.str("HOST", &cfg.Server.Host)
	e.integer("PORT", &cfg.Server.Port)
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}

	e.str("LOG_LEVEL", &cfg.Logging.Level)
	e.boolean("TRANSCRIBER_DEV", &cfg.Logging.Development)

	e.str("TEMPORAL_HOST", &cfg.Temporal.HostPort)
	e.str("TEMPORAL_NAMESPACE", &cfg.Temporal.Namespace)
	e.str("TASK_QUEUE", &cfg.Temporal.TaskQueue)

	return e.err
}

// envReader records the first malformed variable and ignores the rest.
type envReader struct {
	err error
}

func (e *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != "" && e.err == nil
}

func (e *envReader) fail(key, value string, err error) {
	e.err = apperrors.WithKind(apperrors.KindConfig, err, "invalid %s=%q", key, value)
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.lookup(key); ok {
		*dst = v
	}
}

func (e *envReader) integer(key string, dst *int) {
	if v, ok := e.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) boolean(key string, dst *bool) {
	if v, ok := e.lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) duration(key string, dst *time.Duration) {
	if v, ok := e.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = d
	}
}
