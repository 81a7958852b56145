package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-transcriber/internal/app/api"
	client "audio-transcriber/internal/app/api/openai"
)

const sampleVTT = "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nHello world\n"

func newWaveform(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVE"), 0o644))
	return path
}

func TestRemoteCaptioner_GenerateCaptions(t *testing.T) {
	var gotFormat, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		gotFormat = r.FormValue("response_format")
		gotModel = r.FormValue("model")
		w.Header().Set("Content-Type", "text/vtt")
		_, _ = w.Write([]byte(sampleVTT))
	}))
	defer server.Close()

	rc := NewRemoteCaptioner(client.NewClient("sk-test", server.URL+"/v1"), "", "en", nil)
	out := filepath.Join(t.TempDir(), "job.vtt")

	require.NoError(t, rc.GenerateCaptions(context.Background(), newWaveform(t), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, sampleVTT, string(data))
	assert.Equal(t, "vtt", gotFormat)
	assert.Equal(t, "whisper-1", gotModel)
}

func TestRemoteCaptioner_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	rc := NewRemoteCaptioner(client.NewClient("sk-test", server.URL+"/v1"), "whisper-1", "", nil)
	out := filepath.Join(t.TempDir(), "job.vtt")

	err := rc.GenerateCaptions(context.Background(), newWaveform(t), out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "createTranscription failed")
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no caption file on failure")
}

func TestCreateOpenAICaptioner(t *testing.T) {
	_, err := api.NewCaptioner("openai", api.CaptionerSettings{})
	assert.ErrorContains(t, err, "API key")

	c, err := api.NewCaptioner("openai", api.CaptionerSettings{OpenAIAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())
}
