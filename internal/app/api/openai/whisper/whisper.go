package whisper

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// RemoteCaptioner requests WebVTT caption tracks from the OpenAI transcription API.
type RemoteCaptioner struct {
	client   *openai.Client
	model    string
	language string
	logger   *zap.Logger
}

// NewRemoteCaptioner creates a RemoteCaptioner. An empty model selects whisper-1.
func NewRemoteCaptioner(client *openai.Client, model, language string, logger *zap.Logger) *RemoteCaptioner {
	if model == "" {
		model = openai.Whisper1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteCaptioner{client: client, model: model, language: language, logger: logger}
}

// Name identifies the backend.
func (rc *RemoteCaptioner) Name() string {
	return "openai"
}

// GenerateCaptions uploads the waveform and writes the returned VTT to outputPath.
func (rc *RemoteCaptioner) GenerateCaptions(ctx context.Context, waveformPath, outputPath string) error {
	req := openai.AudioRequest{
		Model:    rc.model,
		FilePath: waveformPath,
		Language: rc.language,
		Format:   openai.AudioResponseFormatVTT,
	}

	resp, err := rc.client.CreateTranscription(ctx, req)
	if err != nil {
		return fmt.Errorf("createTranscription failed: %w", err)
	}
	rc.logger.Debug("remote caption track received", zap.Int("bytes", len(resp.Text)))

	if err := os.WriteFile(outputPath, []byte(resp.Text), 0o644); err != nil {
		return fmt.Errorf("failed to write caption track: %w", err)
	}
	return nil
}
