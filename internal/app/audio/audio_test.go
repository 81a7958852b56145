package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-transcriber/internal/app/testutil"
	"audio-transcriber/internal/app/util/execx"
)

// TestParseDurationOutput tests the ffprobe duration parsing
func TestParseDurationOutput(t *testing.T) {
	tests := []struct {
		name             string
		ffprobeOutput    string
		expectedDuration int
		expectedError    bool
	}{
		{name: "integer seconds", ffprobeOutput: "30\n", expectedDuration: 30},
		{name: "round up", ffprobeOutput: "29.5\n", expectedDuration: 30},
		{name: "round down", ffprobeOutput: "29.4\n", expectedDuration: 29},
		{name: "whitespace", ffprobeOutput: "  \t120.5  \n", expectedDuration: 121},
		{name: "invalid", ffprobeOutput: "not-a-number\n", expectedError: true},
		{name: "empty", ffprobeOutput: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			duration, err := parseDurationOutput(tt.ffprobeOutput)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedDuration, duration)
		})
	}
}

func TestParseProbeOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    bool
		wantErr bool
	}{
		{
			name:   "16k mono pcm",
			output: `{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"16000","channels":1}]}`,
			want:   true,
		},
		{
			name:   "16k stereo pcm",
			output: `{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"16000","channels":2}]}`,
			want:   false,
		},
		{
			name:   "aac m4a",
			output: `{"streams":[{"codec_type":"audio","codec_name":"aac","sample_rate":"44100","channels":2}]}`,
			want:   false,
		},
		{
			name:    "garbage",
			output:  `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProbeOutput(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResampleArgs(t *testing.T) {
	args := ResampleArgs("in.m4a", "out.wav")

	assert.Equal(t, []string{"-y", "-i", "in.m4a", "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", "out.wav"}, args)
}

func TestFFmpeg_Resample(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.wav")
	runner := testutil.NewFakeRunner()
	runner.Handler = testutil.WriteLastArg("RIFF")

	f := NewFFmpeg("/opt/ffmpeg", "", runner, nil)
	require.NoError(t, f.Resample(context.Background(), filepath.Join(dir, "in.m4a"), out))

	call := runner.LastCall()
	assert.Equal(t, "/opt/ffmpeg", call.Name)
	assert.Equal(t, out, call.Args[len(call.Args)-1])
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data))
}

func TestFFmpeg_ResampleFailure(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Handler = func(name string, args []string) (execx.Result, error) {
		return execx.Result{ExitCode: 1}, errors.New("exit status 1")
	}

	f := NewFFmpeg("", "", runner, nil)
	err := f.Resample(context.Background(), "in.m4a", "out.wav")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FFmpeg error")
	assert.Equal(t, "ffmpeg", runner.LastCall().Name)
}

func TestFFmpeg_GenerateCaptions(t *testing.T) {
	runner := testutil.NewFakeRunner()
	f := NewFFmpeg("", "", runner, nil)

	require.NoError(t, f.GenerateCaptions(context.Background(), "job.wav", "job.vtt"))
	assert.Equal(t, []string{"-y", "-i", "job.wav", "-f", "webvtt", "job.vtt"}, runner.LastCall().Args)
	assert.Equal(t, "ffmpeg", f.Name())
}

func TestFFmpeg_ProbeHelpers(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Handler = func(name string, args []string) (execx.Result, error) {
		if args[len(args)-2] == "default=noprint_wrappers=1:nokey=1" {
			return execx.Result{Stdout: "12.6\n"}, nil
		}
		return execx.Result{Stdout: `{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"16000","channels":1}]}`}, nil
	}
	f := NewFFmpeg("", "", runner, nil)

	d, err := f.GetAudioDuration(context.Background(), "a.wav")
	require.NoError(t, err)
	assert.Equal(t, 13, d)
	assert.Equal(t, "ffprobe", runner.LastCall().Name)

	ok, err := f.IsNormalizedWav(context.Background(), "a.wav")
	require.NoError(t, err)
	assert.True(t, ok)
}
