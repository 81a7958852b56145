// Package config loads the transcriber configuration: built-in defaults, an
// optional YAML file, then environment overrides.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "audio-transcriber/internal/app/errors"
)

type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Tools    ToolsConfig    `yaml:"tools"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Records  RecordsConfig  `yaml:"records"`
	Registry RegistryConfig `yaml:"registry"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Temporal TemporalConfig `yaml:"temporal"`
}

// StorageConfig places the two namespaces. Staging is always a local
// directory because the external tools work on file paths.
type StorageConfig struct {
	StagingDir string      `yaml:"staging_dir" validate:"required"`
	OutputDir  string      `yaml:"output_dir" validate:"required_if=Backend file"`
	Backend    string      `yaml:"backend" validate:"oneof=file minio"`
	Minio      MinioConfig `yaml:"minio"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type ToolsConfig struct {
	FFmpegPath  string        `yaml:"ffmpeg_path" validate:"required"`
	FFprobePath string        `yaml:"ffprobe_path"`
	Captioner   string        `yaml:"captioner" validate:"required"`
	Whisper     WhisperConfig `yaml:"whisper_cpp"`
	OpenAI      OpenAIConfig  `yaml:"openai"`
}

type WhisperConfig struct {
	Binary   string `yaml:"binary"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
	Threads  int    `yaml:"threads" validate:"gte=0"`
}

type OpenAIConfig struct {
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

type PipelineConfig struct {
	// MaxConcurrency bounds jobs running external tools at once; 0 is unbounded.
	MaxConcurrency int           `yaml:"max_concurrency" validate:"gte=0,lte=100"`
	StageTimeout   time.Duration `yaml:"stage_timeout" validate:"gte=0"`
	MaxAttempts    int           `yaml:"max_attempts" validate:"gte=1,lte=10"`
	RetryBackoff   time.Duration `yaml:"retry_backoff" validate:"gte=0"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" validate:"gt=0"`
}

type RecordsConfig struct {
	Backend     string `yaml:"backend" validate:"oneof=sqlite postgres"`
	SQLitePath  string `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
	PostgresDSN string `yaml:"postgres_dsn" validate:"required_if=Backend postgres"`
}

type RegistryConfig struct {
	Backend       string        `yaml:"backend" validate:"oneof=memory redis"`
	RedisAddr     string        `yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"gte=0"`
	TTL           time.Duration `yaml:"ttl" validate:"gte=0"`
}

type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port" validate:"gt=0,lte=65535"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type LoggingConfig struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

type TemporalConfig struct {
	HostPort  string `yaml:"host_port" validate:"required"`
	Namespace string `yaml:"namespace" validate:"required"`
	TaskQueue string `yaml:"task_queue" validate:"required"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			StagingDir: DefaultStagingDir,
			OutputDir:  DefaultOutputDir,
			Backend:    DefaultStoreBackend,
			Minio:      MinioConfig{Bucket: DefaultMinioBucket},
		},
		Tools: ToolsConfig{
			FFmpegPath:  DefaultFFmpegPath,
			FFprobePath: DefaultFFprobePath,
			Captioner:   DefaultCaptioner,
			OpenAI:      OpenAIConfig{Model: DefaultOpenAIModel},
		},
		Pipeline: PipelineConfig{
			StageTimeout:   DefaultStageTimeout,
			MaxAttempts:    DefaultMaxAttempts,
			RetryBackoff:   DefaultRetryBackoff,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		Records: RecordsConfig{
			Backend:    DefaultRecordBackend,
			SQLitePath: DefaultSQLitePath,
		},
		Registry: RegistryConfig{
			Backend:   DefaultRegistryBackend,
			RedisAddr: DefaultRedisAddr,
			TTL:       DefaultRegistryTTL,
		},
		Server: ServerConfig{
			Host:        DefaultHTTPHost,
			Port:        DefaultHTTPPort,
			CORSOrigins: []string{"*"},
		},
		Temporal: TemporalConfig{
			HostPort:  DefaultTemporalHost,
			Namespace: DefaultNamespace,
			TaskQueue: DefaultTaskQueue,
		},
	}
}

// Load builds a validated Config. An empty path skips the YAML file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.WithKind(apperrors.KindConfig, err, "read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.WithKind(apperrors.KindConfig, err, "parse config file %s", path)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
