package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"audio-transcriber/internal/app/model"
	"audio-transcriber/internal/app/util/execx"
)

const (
	// SampleRate and Channels describe the normalized waveform every job works on.
	SampleRate = 16000
	Channels   = 1
)

// FFmpeg drives the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	runner      execx.Runner
	logger      *zap.Logger
}

// NewFFmpeg creates an FFmpeg using the given binaries.
func NewFFmpeg(ffmpegPath, ffprobePath string, runner execx.Runner, logger *zap.Logger) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if runner == nil {
		runner = execx.NewExecRunner()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath, runner: runner, logger: logger}
}

// Resample converts any audio input into a 16 kHz mono PCM WAV at outputPath.
func (f *FFmpeg) Resample(ctx context.Context, inputPath, outputPath string) error {
	args := ResampleArgs(inputPath, outputPath)
	f.logger.Debug("resampling", zap.String("input", inputPath), zap.String("output", outputPath))

	res, err := f.runner.Run(ctx, f.ffmpegPath, args...)
	if err != nil {
		return fmt.Errorf("FFmpeg error: %w", err)
	}
	f.logger.Debug("resample completed", zap.String("command", res.String()))
	return nil
}

// GenerateCaptions asks ffmpeg's webvtt muxer for a caption track of the waveform.
func (f *FFmpeg) GenerateCaptions(ctx context.Context, waveformPath, outputPath string) error {
	args := []string{"-y", "-i", waveformPath, "-f", "webvtt", outputPath}

	res, err := f.runner.Run(ctx, f.ffmpegPath, args...)
	if err != nil {
		return fmt.Errorf("FFmpeg error: %w", err)
	}
	f.logger.Debug("caption track written", zap.String("command", res.String()))
	return nil
}

// Name identifies the caption backend in logs and metrics.
func (f *FFmpeg) Name() string {
	return "ffmpeg"
}

// ResampleArgs builds the ffmpeg arguments for the normalized waveform.
func ResampleArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		outputPath,
	}
}

// GetAudioDuration returns the rounded duration of filePath in seconds.
func (f *FFmpeg) GetAudioDuration(ctx context.Context, filePath string) (int, error) {
	res, err := f.runner.Run(ctx, f.ffprobePath, "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", filePath)
	if err != nil {
		return 0, err
	}
	return parseDurationOutput(res.Stdout)
}

// IsNormalizedWav reports whether filePath already is a 16 kHz mono PCM WAV.
func (f *FFmpeg) IsNormalizedWav(ctx context.Context, filePath string) (bool, error) {
	res, err := f.runner.Run(ctx, f.ffprobePath, "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	if err != nil {
		return false, err
	}
	return parseProbeOutput(res.Stdout)
}

func parseDurationOutput(output string) (int, error) {
	durationFloat, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(durationFloat)), nil
}

func parseProbeOutput(output string) (bool, error) {
	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal([]byte(output), &probeOutput); err != nil {
		return false, err
	}

	for _, stream := range probeOutput.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" &&
			stream.SampleRate == SampleRate && stream.Channels == Channels {
			return true, nil
		}
	}
	return false, nil
}
