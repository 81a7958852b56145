package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		checkErr    error
		path        string
		wantStatus  int
		wantBody    string
		wantHealthy bool
	}{
		{"live", nil, "/live", http.StatusOK, "OK", true},
		{"ready", nil, "/ready", http.StatusOK, "READY", true},
		{"not_ready", errors.New("connection refused"), "/ready", http.StatusServiceUnavailable, "NOT READY", false},
		{"health", nil, "/health", http.StatusOK, "", true},
		{"health_degraded", errors.New("connection refused"), "/health", http.StatusOK, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := &HealthStatus{
				WorkerID:  "w1",
				TaskQueue: "transcription-queue",
				StartedAt: time.Now().Add(-time.Minute),
				Temporal:  ConnectionStatus{Endpoint: "localhost:7233"},
			}
			handler := HealthHandler(status, func(context.Context) error { return tt.checkErr })

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
				return
			}
			if tt.path != "/health" {
				return
			}

			var got HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, "transcription-queue", got.TaskQueue)
			assert.Equal(t, tt.wantHealthy, got.Temporal.Connected)
			assert.NotEmpty(t, got.Uptime)
			if !tt.wantHealthy {
				assert.Equal(t, "degraded", got.Status)
				assert.Contains(t, got.Temporal.Error, "refused")
			}
		})
	}
}
