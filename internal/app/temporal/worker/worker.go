// Package worker runs the Temporal worker that executes transcription workflows.
package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"audio-transcriber/internal/app/temporal/activities"
	"audio-transcriber/internal/app/temporal/workflows"
)

// HealthStatus represents the worker health status
type HealthStatus struct {
	WorkerID  string           `json:"worker_id"`
	TaskQueue string           `json:"task_queue"`
	Status    string           `json:"status"`
	Uptime    string           `json:"uptime"`
	StartedAt time.Time        `json:"started_at"`
	Temporal  ConnectionStatus `json:"temporal"`
}

// ConnectionStatus represents a connection status
type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	Endpoint  string `json:"endpoint"`
	Error     string `json:"error,omitempty"`
}

// Checker probes the Temporal frontend.
type Checker func(ctx context.Context) error

// Options configure Run.
type Options struct {
	TaskQueue string
	Endpoint  string
	// HealthAddr serves /health, /live and /ready when non-empty.
	HealthAddr string
}

// New registers the transcription workflow and activities on a worker.
func New(c client.Client, taskQueue string, acts *activities.Activities) sdkworker.Worker {
	w := sdkworker.New(c, taskQueue, sdkworker.Options{})
	w.RegisterWorkflow(workflows.TranscribeWorkflow)
	w.RegisterActivity(acts)
	return w
}

// Run polls taskQueue until ctx is cancelled.
func Run(ctx context.Context, c client.Client, acts *activities.Activities, opts Options, logger *zap.Logger) error {
	w := New(c, opts.TaskQueue, acts)
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}
	defer w.Stop()

	hostname, _ := os.Hostname()
	logger.Info("Worker started", zap.String("task_queue", opts.TaskQueue), zap.String("worker_id", hostname))

	if opts.HealthAddr != "" {
		check := func(ctx context.Context) error {
			_, err := c.CheckHealth(ctx, &client.CheckHealthRequest{})
			return err
		}
		status := &HealthStatus{
			WorkerID:  hostname,
			TaskQueue: opts.TaskQueue,
			StartedAt: time.Now(),
			Temporal:  ConnectionStatus{Endpoint: opts.Endpoint},
		}
		srv := &http.Server{Addr: opts.HealthAddr, Handler: HealthHandler(status, check)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				// the worker keeps running without probes
				logger.Warn("Health server failed", zap.String("addr", opts.HealthAddr), zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	<-ctx.Done()
	logger.Info("Worker stopping")
	return nil
}

// HealthHandler serves the worker's probes.
func HealthHandler(status *HealthStatus, check Checker) http.Handler {
	router := gin.New()

	probe := func(c *gin.Context) HealthStatus {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		snapshot := *status
		snapshot.Uptime = time.Since(status.StartedAt).Round(time.Second).String()
		if err := check(ctx); err != nil {
			snapshot.Status = "degraded"
			snapshot.Temporal.Connected = false
			snapshot.Temporal.Error = err.Error()
		} else {
			snapshot.Status = "healthy"
			snapshot.Temporal.Connected = true
		}
		return snapshot
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, probe(c))
	})
	router.GET("/live", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/ready", func(c *gin.Context) {
		if probe(c).Temporal.Connected {
			c.String(http.StatusOK, "READY")
			return
		}
		c.String(http.StatusServiceUnavailable, "NOT READY")
	})
	return router
}
