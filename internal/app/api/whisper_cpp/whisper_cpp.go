package whisper_cpp

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"audio-transcriber/internal/app/util/execx"
)

// LocalCaptioner produces WebVTT caption tracks with a local whisper.cpp binary.
type LocalCaptioner struct {
	binaryPath string
	modelPath  string
	language   string
	threads    int
	runner     execx.Runner
	logger     *zap.Logger
}

// NewLocalCaptioner creates a new instance of LocalCaptioner.
func NewLocalCaptioner(binaryPath, modelPath, language string, threads int, runner execx.Runner, logger *zap.Logger) *LocalCaptioner {
	if runner == nil {
		runner = execx.NewExecRunner()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalCaptioner{
		binaryPath: binaryPath,
		modelPath:  modelPath,
		language:   language,
		threads:    threads,
		runner:     runner,
		logger:     logger,
	}
}

// Name identifies the backend.
func (lc *LocalCaptioner) Name() string {
	return "whisper_cpp"
}

// GenerateCaptions runs whisper.cpp with -ovtt. whisper.cpp always appends
// ".vtt" to the -of base, so the result is renamed when outputPath differs.
func (lc *LocalCaptioner) GenerateCaptions(ctx context.Context, waveformPath, outputPath string) error {
	base := strings.TrimSuffix(outputPath, ".vtt")
	args := lc.buildArgs(waveformPath, base)

	lc.logger.Debug("running whisper.cpp",
		zap.String("binary", lc.binaryPath),
		zap.String("args", strings.Join(args, " ")))

	if _, err := lc.runner.Run(ctx, lc.binaryPath, args...); err != nil {
		return fmt.Errorf("command execution error: %w", err)
	}

	produced := base + ".vtt"
	if produced != outputPath {
		if err := os.Rename(produced, outputPath); err != nil {
			return fmt.Errorf("failed to move caption track: %w", err)
		}
	}
	return nil
}

func (lc *LocalCaptioner) buildArgs(waveformPath, outputBase string) []string {
	args := []string{
		"-m", lc.modelPath,
		"-f", waveformPath,
		"-ovtt",
		"-of", outputBase,
		"-np",
	}
	if lc.language != "" {
		args = append(args, "-l", lc.language)
	}
	if lc.threads > 0 {
		args = append(args, "-t", strconv.Itoa(lc.threads))
	}
	return args
}
