// Package activities exposes the pipeline stages as Temporal activities.
package activities

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/model"
	"audio-transcriber/internal/app/pipeline"
	"audio-transcriber/internal/app/storage"
)

// heartbeatInterval must stay well below the workflow's heartbeat timeout.
const heartbeatInterval = 10 * time.Second

// StageRequest identifies the job a stage activity works on.
type StageRequest struct {
	JobID        string `json:"job_id"`
	OriginalName string `json:"original_name"`
}

// FailRequest marks a job failed with the stage error's message.
type FailRequest struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// Activities runs one pipeline stage per activity against a shared orchestrator.
type Activities struct {
	orch *pipeline.Orchestrator
}

func NewActivities(orch *pipeline.Orchestrator) *Activities {
	return &Activities{orch: orch}
}

// Convert resamples the staged upload of a submitted job.
func (a *Activities) Convert(ctx context.Context, req StageRequest) (string, error) {
	return a.stage(ctx, req, model.JobStateConverting, func() (string, error) {
		loc, err := a.orch.Convert(ctx, req.JobID)
		return loc.String(), err
	})
}

// Extract generates the caption track of a converted job.
func (a *Activities) Extract(ctx context.Context, req StageRequest) (string, error) {
	return a.stage(ctx, req, model.JobStateExtracting, func() (string, error) {
		loc, err := a.orch.Extract(ctx, req.JobID)
		return loc.String(), err
	})
}

// NormalizeAndStore persists the plain-text transcript and marks the job stored.
// A retry that finds the job already stored returns the recorded transcript.
func (a *Activities) NormalizeAndStore(ctx context.Context, req StageRequest) (string, error) {
	if job, err := a.orch.Job(ctx, req.JobID); err == nil && job.State == model.JobStateStored {
		if loc, ok := job.Artifacts[model.ArtifactTranscript]; ok {
			activity.GetLogger(ctx).Info("Job already stored", "jobId", req.JobID, "output", loc)
			return loc, nil
		}
	}

	loc, err := a.stage(ctx, req, model.JobStateNormalizing, func() (string, error) {
		loc, err := a.orch.NormalizeAndStore(ctx, req.JobID, req.OriginalName)
		return loc.String(), err
	})
	if err != nil {
		return "", err
	}
	if err := a.orch.MarkStored(ctx, req.JobID, storage.Location(loc)); err != nil {
		return "", temporal.NewNonRetryableApplicationError(err.Error(), "transition", err)
	}
	return loc, nil
}

// Fail marks the job failed at whatever stage it reached.
func (a *Activities) Fail(ctx context.Context, req FailRequest) error {
	return a.orch.MarkFailed(ctx, req.JobID, errors.New(req.Message))
}

// Cleanup removes the job's intermediate artifacts. It never fails the workflow.
func (a *Activities) Cleanup(ctx context.Context, jobID string) (pipeline.CleanupReport, error) {
	report := a.orch.Cleanup(ctx, jobID)
	if err := a.orch.Settle(ctx, jobID, report); err != nil {
		activity.GetLogger(ctx).Warn("Failed to settle job artifacts", "jobId", jobID, "error", err)
	}
	return report, nil
}

func (a *Activities) stage(ctx context.Context, req StageRequest, state model.JobState, run func() (string, error)) (string, error) {
	logger := activity.GetLogger(ctx)
	info := activity.GetInfo(ctx)
	logger.Info("Starting stage", "jobId", req.JobID, "stage", state, "attempt", info.Attempt)

	if err := a.orch.Advance(ctx, req.JobID, state); err != nil {
		return "", temporal.NewNonRetryableApplicationError(err.Error(), "transition", err)
	}

	stop := keepAlive(ctx, string(state))
	defer stop()

	loc, err := run()
	if err != nil {
		logger.Error("Stage failed", "jobId", req.JobID, "stage", state, "error", err)
		return "", activityError(err)
	}
	logger.Info("Stage complete", "jobId", req.JobID, "stage", state, "output", loc)
	return loc, nil
}

// keepAlive heartbeats until the returned func is called.
func keepAlive(ctx context.Context, details string) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				activity.RecordHeartbeat(ctx, details)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return func() { close(done) }
}

// activityError tags err with its kind. Errors no retry can fix are marked
// non-retryable.
func activityError(err error) error {
	kind := string(apperrors.KindOf(err))
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound, apperrors.KindIngestion, apperrors.KindConfig:
		return temporal.NewNonRetryableApplicationError(err.Error(), kind, err)
	default:
		return temporal.NewApplicationErrorWithCause(err.Error(), kind, err)
	}
}
