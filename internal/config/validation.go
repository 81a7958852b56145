package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/api"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags, then the rules that span several fields.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(validationErrs))
			for _, fe := range validationErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
			return apperrors.WithKind(apperrors.KindConfig, nil, "invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return apperrors.WithKind(apperrors.KindConfig, err, "invalid configuration")
	}

	if err := ValidateTimeout(cfg.Pipeline.StageTimeout, "stage"); err != nil {
		return err
	}
	if err := ValidateCaptioner(cfg.Tools); err != nil {
		return err
	}
	if cfg.Storage.Backend == "minio" {
		m := cfg.Storage.Minio
		if m.Endpoint == "" {
			return apperrors.RequiredField("storage.minio.endpoint")
		}
		if m.Bucket == "" {
			return apperrors.RequiredField("storage.minio.bucket")
		}
	}
	return nil
}

// ValidateTimeout validates timeout duration; zero disables the timeout.
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout < 0 {
		return apperrors.InvalidField(name+" timeout", "must not be negative")
	}
	if timeout > 24*time.Hour {
		return apperrors.InvalidField(name+" timeout", "too large (max 24 hours)")
	}
	return nil
}

// ValidateCaptioner checks the selected caption backend is known and has what it needs.
func ValidateCaptioner(tools ToolsConfig) error {
	known := api.Captioners()
	if len(known) > 0 && !lo.Contains(known, tools.Captioner) {
		return apperrors.InvalidField("tools.captioner", fmt.Sprintf("%q is not one of %s", tools.Captioner, strings.Join(known, ", ")))
	}

	switch tools.Captioner {
	case "whisper_cpp":
		if tools.Whisper.Binary == "" {
			return apperrors.RequiredField("tools.whisper_cpp.binary")
		}
		if tools.Whisper.Model == "" {
			return apperrors.RequiredField("tools.whisper_cpp.model")
		}
	case "openai":
		if err := ValidateAPIKey(tools.OpenAI.APIKey, "OpenAI"); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return apperrors.RequiredField(keyType + " API key")
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return apperrors.InvalidField(keyType+" API key", "must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return apperrors.InvalidField(keyType+" API key", "too short")
		}
	}

	return nil
}
