package common

import (
	"context"
	"time"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/pipeline"
	"audio-transcriber/internal/app/storage"
	"audio-transcriber/internal/app/temporal/workflows"
)

// DurableTranscriber stages uploads locally and hands the stages to the
// Temporal workers sharing the same staging directory.
type DurableTranscriber struct {
	client       client.Client
	orchestrator *pipeline.Orchestrator
	taskQueue    string
	maxAttempts  int
	retryBackoff time.Duration
	stageTimeout time.Duration
	logger       *zap.Logger
}

func NewDurableTranscriber(
	c client.Client,
	orch *pipeline.Orchestrator,
	taskQueue string,
	opts pipeline.Options,
	logger *zap.Logger,
) *DurableTranscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DurableTranscriber{
		client:       c,
		orchestrator: orch,
		taskQueue:    taskQueue,
		maxAttempts:  opts.MaxAttempts,
		retryBackoff: opts.RetryBackoff,
		stageTimeout: opts.StageTimeout,
		logger:       logger,
	}
}

// Transcribe submits data, waits for its workflow and reports the job the way
// Orchestrator.Transcribe does: any failure is the generic job failure.
func (d *DurableTranscriber) Transcribe(ctx context.Context, data []byte, originalName string) (*pipeline.Result, error) {
	job, err := d.orchestrator.Submit(ctx, data, originalName)
	if err != nil {
		d.logger.Error("ingestion failed", zap.String("original_name", originalName), zap.Error(err))
		return nil, apperrors.ErrJobFailed
	}

	run, err := StartTranscription(ctx, d.client, d.taskQueue, workflows.TranscribeRequest{
		JobID:        job.ID,
		OriginalName: job.OriginalName,
		MaxAttempts:  d.maxAttempts,
		RetryBackoff: d.retryBackoff,
		StageTimeout: d.stageTimeout,
	})
	if err != nil {
		d.logger.Error("cannot start workflow", zap.String("job_id", job.ID), zap.Error(err))
		// no worker will pick the job up, so settle it here
		bg := context.WithoutCancel(ctx)
		if failErr := d.orchestrator.MarkFailed(bg, job.ID, err); failErr != nil {
			d.logger.Warn("cannot mark job failed", zap.String("job_id", job.ID), zap.Error(failErr))
		}
		_ = d.orchestrator.Settle(bg, job.ID, d.orchestrator.Cleanup(bg, job.ID))
		return nil, apperrors.ErrJobFailed
	}

	var out workflows.TranscribeResult
	runErr := run.Get(ctx, &out)

	res := &pipeline.Result{
		Job:        job.Snapshot(),
		Transcript: storage.Location(out.Transcript),
		Cleanup:    out.Cleanup,
	}
	if snap, err := d.orchestrator.Job(ctx, job.ID); err == nil {
		res.Job = snap
	}
	if runErr != nil {
		d.logger.Error("workflow failed",
			zap.String("job_id", job.ID),
			zap.String("workflow_id", run.GetID()),
			zap.Error(runErr))
		return res, apperrors.ErrJobFailed
	}
	return res, nil
}
