package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/api"
	"audio-transcriber/internal/app/storage"
	"audio-transcriber/internal/app/util/files"
)

var (
	errNoOutput      = errors.New("tool reported success but produced no output")
	errNotNormalized = errors.New("resampled output is not 16 kHz mono PCM")
)

// stageRunner invokes one external tool under a timeout, retrying with
// exponential backoff. A failed attempt never leaves its output behind.
type stageRunner struct {
	store    *storage.FileStore
	timeout  time.Duration
	attempts int
	backoff  time.Duration
	metrics  *Metrics
	logger   *zap.Logger
}

func (r *stageRunner) run(ctx context.Context, stage, jobID string, out storage.Location, invoke func(ctx context.Context) error) error {
	attempts := r.attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := r.backoff << (attempt - 2)
			r.logger.Warn("retrying stage",
				zap.String("job_id", jobID),
				zap.String("stage", stage),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait),
				zap.Error(err))
			if !sleep(ctx, wait) {
				return err
			}
		}

		err = r.once(ctx, stage, out, invoke)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (r *stageRunner) once(ctx context.Context, stage string, out storage.Location, invoke func(ctx context.Context) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	err := invoke(ctx)
	if err == nil && !files.NonEmptyFile(r.store.Path(out)) {
		err = errNoOutput
	}
	r.metrics.observeStage(stage, time.Since(start), err)

	if err != nil {
		// partial output must not survive a failed attempt
		_ = r.store.Delete(context.WithoutCancel(ctx), out)
	}
	return err
}

// sleep waits for d or until ctx is done, reporting whether it waited fully.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Converter produces the 16 kHz mono waveform of a staged input.
type Converter struct {
	resampler api.AudioProcessor
	runner    *stageRunner
}

// Convert writes "<jobID>.wav" next to the staged input and returns its location.
func (c *Converter) Convert(ctx context.Context, jobID string, staged storage.Location) (storage.Location, error) {
	store := c.runner.store
	out, err := store.Locate(waveformKey(jobID))
	if err != nil {
		return "", apperrors.Conversion(err, "invalid job id %q", jobID)
	}
	if !store.Exists(staged) {
		return "", apperrors.Conversion(apperrors.NotFound("staged input", staged.String()), "nothing to convert for %s", jobID)
	}

	err = c.runner.run(ctx, "convert", jobID, out, func(ctx context.Context) error {
		if err := c.resampler.Resample(ctx, store.Path(staged), store.Path(out)); err != nil {
			return err
		}
		if !files.NonEmptyFile(store.Path(out)) {
			return errNoOutput
		}
		ok, err := c.resampler.IsNormalizedWav(ctx, store.Path(out))
		if err != nil {
			return err
		}
		if !ok {
			return errNotNormalized
		}
		return nil
	})
	if err != nil {
		return "", apperrors.Conversion(err, "failed to convert %s", jobID)
	}

	secs, err := c.resampler.GetAudioDuration(ctx, store.Path(out))
	if err != nil {
		c.runner.logger.Warn("failed to read audio duration",
			zap.String("job_id", jobID),
			zap.Error(err))
	} else {
		c.runner.metrics.observeAudio(secs)
	}
	return out, nil
}

// Extractor produces the WebVTT caption track of a waveform.
type Extractor struct {
	captioner api.Captioner
	runner    *stageRunner
}

// Extract writes "<jobID>.vtt" and returns its location.
func (e *Extractor) Extract(ctx context.Context, jobID string, waveform storage.Location) (storage.Location, error) {
	store := e.runner.store
	out, err := store.Locate(captionKey(jobID))
	if err != nil {
		return "", apperrors.Extraction(err, "invalid job id %q", jobID)
	}
	if !store.Exists(waveform) {
		return "", apperrors.Extraction(apperrors.NotFound("waveform", waveform.String()), "nothing to caption for %s", jobID)
	}

	err = e.runner.run(ctx, "extract", jobID, out, func(ctx context.Context) error {
		return e.captioner.GenerateCaptions(ctx, store.Path(waveform), store.Path(out))
	})
	if err != nil {
		return "", apperrors.Extraction(err, "%s failed to caption %s", e.captioner.Name(), jobID)
	}
	return out, nil
}
