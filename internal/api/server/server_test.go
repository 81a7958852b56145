package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-transcriber/internal/app/pipeline"
	"audio-transcriber/internal/app/storage"
	"audio-transcriber/internal/app/testutil"
)

func newTestServer(t *testing.T, tools *testutil.FakeToolchain) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	staging, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	output, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	orch := pipeline.New(staging, output, tools, testutil.NewMockTranscriptDAO(), nil,
		pipeline.NewMetrics(reg), nil, pipeline.Options{MaxAttempts: 1})

	srv := NewServer(Config{Host: "127.0.0.1", Port: 3000, MaxUploadBytes: 1 << 20}, orch, reg, nil)
	gin.SetMode(gin.TestMode)
	return srv
}

func upload(t *testing.T, router http.Handler, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServer_UploadThenDownload(t *testing.T) {
	srv := newTestServer(t, testutil.NewFakeToolchain())
	router := srv.Router()

	w := upload(t, router, "talk.m4a", []byte("m4a bytes"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Transcription complete", resp["message"])
	require.NotEmpty(t, resp["jobId"])
	assert.Equal(t, resp["jobId"]+".txt", resp["outputFile"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/"+resp["outputFile"], nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello world", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+resp["jobId"], nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"stored"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transcripts", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestServer_PipelineFailureIsGeneric(t *testing.T) {
	tools := testutil.NewFakeToolchain()
	tools.ResampleErr = errors.New("ffmpeg: Invalid data found when processing input")
	router := newTestServer(t, tools).Router()

	w := upload(t, router, "broken.m4a", []byte("not audio"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Error processing file", resp["error"])
	assert.NotContains(t, w.Body.String(), "ffmpeg")
}

func TestServer_DownloadMissing(t *testing.T) {
	router := newTestServer(t, testutil.NewFakeToolchain()).Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/never-stored", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_OperationalEndpoints(t *testing.T) {
	srv := newTestServer(t, testutil.NewFakeToolchain())
	router := srv.Router()
	assert.Equal(t, "127.0.0.1:3000", srv.Addr())

	w := upload(t, router, "talk.m4a", []byte("m4a bytes"))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	metrics := w.Body.String()
	assert.True(t, strings.Contains(metrics, `transcriber_jobs_finished_total{outcome="stored"} 1`), metrics)
	assert.Contains(t, metrics, "transcriber_stage_duration_seconds")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/upload")
}
