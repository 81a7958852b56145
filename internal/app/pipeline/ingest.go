package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/model"
	"audio-transcriber/internal/app/util/files"
)

// maxIDAttempts bounds ID regeneration after staging collisions.
const maxIDAttempts = 8

func stagedKey(jobID string) string     { return jobID }
func waveformKey(jobID string) string   { return jobID + ".wav" }
func captionKey(jobID string) string    { return jobID + ".vtt" }
func transcriptKey(jobID string) string { return jobID + ".txt" }

// newJobID returns "<unix millis>-<8 hex>-<sanitized name>".
func newJobID(now time.Time, originalName string) string {
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.NewString()[:8], files.SanitizeFileName(originalName))
}

// Submit stages data under a fresh job ID and returns the received job.
// Any failure is an ingestion error and leaves nothing behind.
func (o *Orchestrator) Submit(ctx context.Context, data []byte, originalName string) (*model.Job, error) {
	if len(data) == 0 {
		return nil, apperrors.Ingestion(nil, "no audio data in upload %q", originalName)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Ingestion(err, "upload %q cancelled", originalName)
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		now := o.clock()
		id := o.newID(now, originalName)

		loc, err := o.staging.Create(ctx, stagedKey(id), data)
		if errors.Is(err, fs.ErrExist) {
			o.logger.Debug("job id collision, regenerating", zap.String("job_id", id))
			continue
		}
		if err != nil {
			return nil, apperrors.Ingestion(err, "failed to stage upload %q", originalName)
		}

		job := model.NewJob(id, originalName, now)
		job.SetArtifact(model.ArtifactStagedInput, loc.String())
		o.publish(ctx, job)
		o.metrics.submitted.Inc()
		o.logger.Info("job received",
			zap.String("job_id", id),
			zap.String("original_name", originalName),
			zap.Int("bytes", len(data)))
		return job, nil
	}

	return nil, apperrors.Ingestion(nil, "no unique job id after %d attempts", maxIDAttempts)
}
