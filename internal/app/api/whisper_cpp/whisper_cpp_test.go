package whisper_cpp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-transcriber/internal/app/api"
	"audio-transcriber/internal/app/testutil"
	"audio-transcriber/internal/app/util/execx"
)

// whisperWrites mimics whisper.cpp writing "<-of value>.vtt".
func whisperWrites(content string) func(string, []string) (execx.Result, error) {
	return func(name string, args []string) (execx.Result, error) {
		for i, a := range args {
			if a == "-of" && i+1 < len(args) {
				return execx.Result{}, os.WriteFile(args[i+1]+".vtt", []byte(content), 0o644)
			}
		}
		return execx.Result{}, errors.New("no -of")
	}
}

func TestLocalCaptioner_GenerateCaptions(t *testing.T) {
	tests := []struct {
		name       string
		outputName string
	}{
		{name: "vtt_suffix", outputName: "job.vtt"},
		{name: "other_suffix", outputName: "job.captions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			out := filepath.Join(dir, tt.outputName)
			runner := testutil.NewFakeRunner()
			runner.Handler = whisperWrites("WEBVTT\n")

			lc := NewLocalCaptioner("/bin/whisper-cli", "/models/base.bin", "en", 4, runner, nil)
			require.NoError(t, lc.GenerateCaptions(context.Background(), filepath.Join(dir, "job.wav"), out))

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, "WEBVTT\n", string(data))

			call := runner.LastCall()
			assert.Equal(t, "/bin/whisper-cli", call.Name)
			assert.Contains(t, call.Args, "-ovtt")
			assert.Contains(t, call.Args, "/models/base.bin")
		})
	}
}

func TestLocalCaptioner_BuildArgs(t *testing.T) {
	lc := NewLocalCaptioner("whisper", "model.bin", "", 0, nil, nil)
	assert.Equal(t, []string{"-m", "model.bin", "-f", "in.wav", "-ovtt", "-of", "out", "-np"}, lc.buildArgs("in.wav", "out"))

	lc = NewLocalCaptioner("whisper", "model.bin", "zh", 8, nil, nil)
	assert.Equal(t, []string{"-m", "model.bin", "-f", "in.wav", "-ovtt", "-of", "out", "-np", "-l", "zh", "-t", "8"}, lc.buildArgs("in.wav", "out"))
}

func TestLocalCaptioner_CommandFailure(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Handler = func(string, []string) (execx.Result, error) {
		return execx.Result{ExitCode: 2}, errors.New("exit status 2")
	}

	lc := NewLocalCaptioner("whisper", "model.bin", "", 0, runner, nil)
	err := lc.GenerateCaptions(context.Background(), "in.wav", filepath.Join(t.TempDir(), "out.vtt"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "command execution error")
}

func TestCreateWhisperCppCaptioner(t *testing.T) {
	_, err := api.NewCaptioner("whisper_cpp", api.CaptionerSettings{WhisperModel: "m.bin"})
	assert.ErrorContains(t, err, "binary path")

	_, err = api.NewCaptioner("whisper_cpp", api.CaptionerSettings{WhisperBinary: "whisper"})
	assert.ErrorContains(t, err, "model path")

	c, err := api.NewCaptioner("whisper_cpp", api.CaptionerSettings{WhisperBinary: "whisper", WhisperModel: "m.bin"})
	require.NoError(t, err)
	assert.Equal(t, "whisper_cpp", c.Name())
}
