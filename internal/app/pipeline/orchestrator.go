// Package pipeline turns an uploaded recording into a stored transcript:
// stage the upload, convert it to a waveform, extract captions, normalize
// them to plain text, persist the text, and always clean up.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/api"
	"audio-transcriber/internal/app/jobs"
	"audio-transcriber/internal/app/model"
	"audio-transcriber/internal/app/repository"
	"audio-transcriber/internal/app/storage"
	"audio-transcriber/internal/app/vtt"
)

// Options tune how jobs are executed.
type Options struct {
	// MaxConcurrency bounds jobs running at once; 0 means unbounded.
	MaxConcurrency int
	// StageTimeout bounds one external tool invocation; 0 disables it.
	StageTimeout time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
}

// Result is the outcome of one job run.
type Result struct {
	Job        model.Job        `json:"job"`
	Transcript storage.Location `json:"transcript,omitempty"`
	Cleanup    CleanupReport    `json:"cleanup"`
}

// Orchestrator owns job identity and drives each job through the pipeline.
type Orchestrator struct {
	staging   *storage.FileStore
	output    storage.Store
	records   repository.TranscriptDAO
	registry  jobs.Registry
	converter *Converter
	extractor *Extractor
	metrics   *Metrics
	logger    *zap.Logger
	slots     chan struct{}
	clock     func() time.Time
	newID     func(now time.Time, originalName string) string
}

// New wires an Orchestrator. records may be nil, in which case transcripts are
// resolved by their derived key; nil registry, metrics and logger get
// process-local defaults.
func New(
	staging *storage.FileStore,
	output storage.Store,
	tools api.Toolchain,
	records repository.TranscriptDAO,
	registry jobs.Registry,
	metrics *Metrics,
	logger *zap.Logger,
	opts Options,
) *Orchestrator {
	if registry == nil {
		registry = jobs.NewMemoryRegistry()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	runner := &stageRunner{
		store:    staging,
		timeout:  opts.StageTimeout,
		attempts: opts.MaxAttempts,
		backoff:  opts.RetryBackoff,
		metrics:  metrics,
		logger:   logger,
	}

	o := &Orchestrator{
		staging:   staging,
		output:    output,
		records:   records,
		registry:  registry,
		converter: &Converter{resampler: tools, runner: runner},
		extractor: &Extractor{captioner: tools, runner: runner},
		metrics:   metrics,
		logger:    logger,
		clock:     func() time.Time { return time.Now().UTC() },
		newID:     newJobID,
	}
	if opts.MaxConcurrency > 0 {
		o.slots = make(chan struct{}, opts.MaxConcurrency)
	}
	return o
}

// Transcribe submits data and runs the job to completion.
func (o *Orchestrator) Transcribe(ctx context.Context, data []byte, originalName string) (*Result, error) {
	job, err := o.Submit(ctx, data, originalName)
	if err != nil {
		o.logger.Error("ingestion failed", zap.String("original_name", originalName), zap.Error(err))
		return nil, apperrors.WithKind(apperrors.KindJobFailed, nil, "error processing file")
	}
	return o.Run(ctx, job)
}

// Run drives a received job to a terminal state and cleans up before
// returning. A failed job yields an error matching ErrJobFailed; the stage
// error stays on Result.Job.Failure.
func (o *Orchestrator) Run(ctx context.Context, job *model.Job) (*Result, error) {
	if job == nil || job.State != model.JobStateReceived {
		return nil, apperrors.Newf("job must be in state %s", model.JobStateReceived)
	}

	log := o.logger.With(zap.String("job_id", job.ID))
	start := time.Now()

	transcript, err := o.execute(ctx, job, log)
	if err != nil {
		stage := job.State
		if failErr := job.Fail(err, o.clock()); failErr != nil {
			log.Error("cannot mark job failed", zap.Error(failErr))
		}
		log.Error("job failed",
			zap.String("stage", string(stage)),
			zap.String("state", string(job.State)),
			zap.Error(err))
	} else {
		log.Info("job stored",
			zap.String("state", string(job.State)),
			zap.Stringer("transcript", transcript),
			zap.Duration("elapsed", time.Since(start)))
	}

	// cleanup must run even when the caller has gone away
	report := o.Cleanup(context.WithoutCancel(ctx), job.ID)
	for _, kind := range []model.ArtifactKind{model.ArtifactStagedInput, model.ArtifactWaveform, model.ArtifactCaptionTrack} {
		if !failedToRemove(report, job.Artifacts[kind]) {
			job.SetArtifact(kind, "")
		}
	}
	o.publish(context.WithoutCancel(ctx), job)

	res := &Result{Job: job.Snapshot(), Transcript: transcript, Cleanup: report}
	if err != nil {
		o.metrics.jobs.WithLabelValues(string(model.JobStateFailed)).Inc()
		return res, apperrors.WithKind(apperrors.KindJobFailed, nil, "error processing file")
	}
	o.metrics.jobs.WithLabelValues(string(model.JobStateStored)).Inc()
	return res, nil
}

func (o *Orchestrator) execute(ctx context.Context, job *model.Job, log *zap.Logger) (storage.Location, error) {
	release, err := o.acquire(ctx)
	if err != nil {
		return "", apperrors.Conversion(err, "gave up waiting for a free slot")
	}
	defer release()

	staged := storage.Location(job.Artifacts[model.ArtifactStagedInput])

	if err := o.advance(ctx, job, model.JobStateConverting, log); err != nil {
		return "", err
	}
	waveform, err := o.converter.Convert(ctx, job.ID, staged)
	if err != nil {
		return "", err
	}
	job.SetArtifact(model.ArtifactWaveform, waveform.String())

	if err := o.advance(ctx, job, model.JobStateExtracting, log); err != nil {
		return "", err
	}
	caption, err := o.extractor.Extract(ctx, job.ID, waveform)
	if err != nil {
		return "", err
	}
	job.SetArtifact(model.ArtifactCaptionTrack, caption.String())

	if err := o.advance(ctx, job, model.JobStateNormalizing, log); err != nil {
		return "", err
	}
	transcript, err := o.NormalizeAndStore(ctx, job.ID, job.OriginalName)
	if err != nil {
		return "", err
	}
	job.SetArtifact(model.ArtifactTranscript, transcript.String())

	if err := o.advance(ctx, job, model.JobStateStored, log); err != nil {
		return "", err
	}
	return transcript, nil
}

func (o *Orchestrator) advance(ctx context.Context, job *model.Job, to model.JobState, log *zap.Logger) error {
	if err := job.Transition(to, o.clock()); err != nil {
		return err
	}
	log.Debug("job transition", zap.String("state", string(to)))
	o.publish(ctx, job)
	return nil
}

// Convert runs the conversion stage for an already staged job.
func (o *Orchestrator) Convert(ctx context.Context, jobID string) (storage.Location, error) {
	return o.converter.Convert(ctx, jobID, storage.Location(stagedKey(jobID)))
}

// Extract runs the caption stage for a converted job.
func (o *Orchestrator) Extract(ctx context.Context, jobID string) (storage.Location, error) {
	return o.extractor.Extract(ctx, jobID, storage.Location(waveformKey(jobID)))
}

// NormalizeAndStore reduces the job's caption track to plain text, persists it
// to the output store and records it. If the record cannot be written the
// transcript is removed again, so a transcript exists only for recorded jobs.
func (o *Orchestrator) NormalizeAndStore(ctx context.Context, jobID, originalName string) (storage.Location, error) {
	captions, err := o.staging.Retrieve(ctx, storage.Location(captionKey(jobID)))
	if err != nil {
		return "", apperrors.Store(err, "failed to read caption track of %s", jobID)
	}

	text := vtt.Normalize(string(captions))
	loc, err := o.output.Persist(ctx, transcriptKey(jobID), []byte(text))
	if err != nil {
		return "", apperrors.Store(err, "failed to persist transcript of %s", jobID)
	}

	if o.records != nil {
		rec := model.TranscriptRecord{
			JobID:        jobID,
			OriginalName: originalName,
			Location:     loc.String(),
			SizeBytes:    int64(len(text)),
			CreatedAt:    o.clock(),
		}
		if err := o.records.Record(ctx, rec); err != nil {
			if delErr := o.output.Delete(context.WithoutCancel(ctx), loc); delErr != nil {
				o.logger.Warn("failed to roll back transcript", zap.String("job_id", jobID), zap.Error(delErr))
			}
			return "", apperrors.Store(err, "failed to record transcript of %s", jobID)
		}
	}
	return loc, nil
}

// Cleanup removes the job's intermediate artifacts and counts what stayed behind.
func (o *Orchestrator) Cleanup(ctx context.Context, jobID string) CleanupReport {
	report := Cleanup(ctx, o.staging, jobID, o.logger)
	o.metrics.cleanupFailures.Add(float64(len(report.Failures)))
	return report
}

// Retrieve returns the transcript bytes at loc in the output store.
func (o *Orchestrator) Retrieve(ctx context.Context, loc storage.Location) ([]byte, error) {
	return o.output.Retrieve(ctx, loc)
}

// Transcript returns the transcript of a stored job, or a NotFound error.
func (o *Orchestrator) Transcript(ctx context.Context, jobID string) ([]byte, error) {
	loc := storage.Location(transcriptKey(jobID))
	if o.records != nil {
		rec, err := o.records.Get(ctx, jobID)
		if err != nil {
			return nil, err
		}
		loc = storage.Location(rec.Location)
	}
	return o.output.Retrieve(ctx, loc)
}

// Job returns the latest snapshot of a job.
func (o *Orchestrator) Job(ctx context.Context, jobID string) (model.Job, error) {
	return o.registry.Get(ctx, jobID)
}

// Jobs lists recent job snapshots, newest first.
func (o *Orchestrator) Jobs(ctx context.Context, limit int) ([]model.Job, error) {
	return o.registry.List(ctx, limit)
}

// Transcripts lists stored transcript records, newest first.
func (o *Orchestrator) Transcripts(ctx context.Context, limit int) ([]model.TranscriptRecord, error) {
	if o.records == nil {
		return []model.TranscriptRecord{}, nil
	}
	return o.records.List(ctx, limit)
}

func (o *Orchestrator) acquire(ctx context.Context) (func(), error) {
	if o.slots == nil {
		o.metrics.inflight.Inc()
		return func() { o.metrics.inflight.Dec() }, nil
	}
	select {
	case o.slots <- struct{}{}:
		o.metrics.inflight.Inc()
		return func() {
			o.metrics.inflight.Dec()
			<-o.slots
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// publish stores a snapshot; registry trouble is logged, never fatal to the job.
func (o *Orchestrator) publish(ctx context.Context, job *model.Job) {
	if err := o.registry.Put(ctx, job.Snapshot()); err != nil {
		o.logger.Warn("failed to publish job snapshot", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func failedToRemove(report CleanupReport, loc string) bool {
	for _, f := range report.Failures {
		if f.Location.String() == loc {
			return true
		}
	}
	return false
}
