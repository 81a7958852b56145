package pipeline

import (
	"context"

	"go.uber.org/zap"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/model"
	"audio-transcriber/internal/app/storage"
)

// The methods below let an external driver, such as a durable workflow, run
// the stages one at a time while keeping the published job snapshot current.
// A job missing from the registry is logged and skipped.

// Advance moves the job to the next pipeline state. Advancing to the state
// the job is already in is a no-op, so a retried stage can re-enter.
func (o *Orchestrator) Advance(ctx context.Context, jobID string, to model.JobState) error {
	return o.track(ctx, jobID, func(job *model.Job) error {
		if job.State == to {
			return nil
		}
		return job.Transition(to, o.clock())
	})
}

// MarkStored records the transcript and moves the job to stored.
func (o *Orchestrator) MarkStored(ctx context.Context, jobID string, transcript storage.Location) error {
	err := o.track(ctx, jobID, func(job *model.Job) error {
		if err := job.Transition(model.JobStateStored, o.clock()); err != nil {
			return err
		}
		job.SetArtifact(model.ArtifactTranscript, transcript.String())
		return nil
	})
	if err == nil {
		o.metrics.jobs.WithLabelValues(string(model.JobStateStored)).Inc()
	}
	return err
}

// MarkFailed moves the job to failed, remembering the stage it was in.
func (o *Orchestrator) MarkFailed(ctx context.Context, jobID string, cause error) error {
	err := o.track(ctx, jobID, func(job *model.Job) error {
		return job.Fail(cause, o.clock())
	})
	if err == nil {
		o.metrics.jobs.WithLabelValues(string(model.JobStateFailed)).Inc()
	}
	return err
}

// Settle drops the intermediate artifacts that report says are gone.
func (o *Orchestrator) Settle(ctx context.Context, jobID string, report CleanupReport) error {
	return o.track(ctx, jobID, func(job *model.Job) error {
		for _, kind := range []model.ArtifactKind{model.ArtifactStagedInput, model.ArtifactWaveform, model.ArtifactCaptionTrack} {
			if !failedToRemove(report, job.Artifacts[kind]) {
				job.SetArtifact(kind, "")
			}
		}
		return nil
	})
}

func (o *Orchestrator) track(ctx context.Context, jobID string, fn func(*model.Job) error) error {
	snap, err := o.registry.Get(ctx, jobID)
	if apperrors.KindOf(err) == apperrors.KindNotFound {
		o.logger.Debug("job not tracked by registry", zap.String("job_id", jobID))
		return nil
	}
	if err != nil {
		o.logger.Warn("failed to load job snapshot", zap.String("job_id", jobID), zap.Error(err))
		return nil
	}

	job := &snap
	if job.Artifacts == nil {
		job.Artifacts = make(map[model.ArtifactKind]string)
	}
	if err := fn(job); err != nil {
		return err
	}
	o.publish(ctx, job)
	return nil
}
