// Package workflows defines the durable transcription workflow.
package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/pipeline"
	"audio-transcriber/internal/app/temporal/activities"
)

const (
	defaultStageTimeout = 30 * time.Minute
	heartbeatTimeout    = 30 * time.Second
)

// TranscribeRequest names a job already staged through Submit, plus the retry
// settings for its stages.
type TranscribeRequest struct {
	JobID        string        `json:"job_id"`
	OriginalName string        `json:"original_name"`
	MaxAttempts  int           `json:"max_attempts"`
	RetryBackoff time.Duration `json:"retry_backoff"`
	StageTimeout time.Duration `json:"stage_timeout"`
}

// TranscribeResult is what the workflow reports back.
type TranscribeResult struct {
	JobID      string                 `json:"job_id"`
	Transcript string                 `json:"transcript,omitempty"`
	Cleanup    pipeline.CleanupReport `json:"cleanup"`
}

// WorkflowID is the Temporal workflow ID for a job.
func WorkflowID(jobID string) string {
	return "transcribe-" + jobID
}

// TranscribeWorkflow runs Convert, Extract and NormalizeAndStore in order and
// then always runs Cleanup. A failed stage marks the job failed and ends the
// workflow with a generic job_failed error.
func TranscribeWorkflow(ctx workflow.Context, req TranscribeRequest) (TranscribeResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting transcription workflow", "jobId", req.JobID)

	result := TranscribeResult{JobID: req.JobID}
	stageReq := activities.StageRequest{JobID: req.JobID, OriginalName: req.OriginalName}
	var a *activities.Activities

	stageCtx := workflow.WithActivityOptions(ctx, stageOptions(req))

	var waveform, captions string
	err := workflow.ExecuteActivity(stageCtx, a.Convert, stageReq).Get(stageCtx, &waveform)
	if err == nil {
		err = workflow.ExecuteActivity(stageCtx, a.Extract, stageReq).Get(stageCtx, &captions)
	}
	if err == nil {
		err = workflow.ExecuteActivity(stageCtx, a.NormalizeAndStore, stageReq).Get(stageCtx, &result.Transcript)
	}

	// cleanup runs even when the workflow is cancelled
	cleanupCtx, cancel := workflow.NewDisconnectedContext(ctx)
	defer cancel()
	cleanupCtx = workflow.WithActivityOptions(cleanupCtx, cleanupOptions())

	if err != nil {
		logger.Error("Transcription failed", "jobId", req.JobID, "error", err)
		failReq := activities.FailRequest{JobID: req.JobID, Message: err.Error()}
		if failErr := workflow.ExecuteActivity(cleanupCtx, a.Fail, failReq).Get(cleanupCtx, nil); failErr != nil {
			logger.Warn("Failed to mark job failed", "jobId", req.JobID, "error", failErr)
		}
	}

	if cleanupErr := workflow.ExecuteActivity(cleanupCtx, a.Cleanup, req.JobID).Get(cleanupCtx, &result.Cleanup); cleanupErr != nil {
		logger.Warn("Cleanup did not run", "jobId", req.JobID, "error", cleanupErr)
	}

	if err != nil {
		return result, temporal.NewNonRetryableApplicationError("error processing file", string(apperrors.KindJobFailed), nil)
	}

	logger.Info("Transcription workflow complete", "jobId", req.JobID, "transcript", result.Transcript)
	return result, nil
}

func stageOptions(req TranscribeRequest) workflow.ActivityOptions {
	timeout := defaultStageTimeout
	if req.StageTimeout > 0 {
		// one activity may spend a full tool timeout per internal attempt
		timeout = req.StageTimeout + time.Minute
	}
	backoff := req.RetryBackoff
	if backoff < time.Second {
		backoff = time.Second
	}
	attempts := req.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	return workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		HeartbeatTimeout:    heartbeatTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    backoff,
			BackoffCoefficient: 2.0,
			MaximumInterval:    100 * backoff,
			MaximumAttempts:    int32(attempts),
		},
	}
}

func cleanupOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	}
}
