package model

import (
	"fmt"
	"time"
)

// JobState is a position in the pipeline state machine.
type JobState string

const (
	JobStateReceived    JobState = "received"
	JobStateConverting  JobState = "converting"
	JobStateExtracting  JobState = "extracting"
	JobStateNormalizing JobState = "normalizing"
	JobStateStored      JobState = "stored"
	JobStateFailed      JobState = "failed"
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s JobState) IsTerminal() bool {
	return s == JobStateStored || s == JobStateFailed
}

// ArtifactKind names the artifacts a job produces.
type ArtifactKind string

const (
	ArtifactStagedInput  ArtifactKind = "staged-input"
	ArtifactWaveform     ArtifactKind = "waveform"
	ArtifactCaptionTrack ArtifactKind = "caption-track"
	ArtifactTranscript   ArtifactKind = "transcript"
)

// IsIntermediate reports whether the artifact must be gone once the job terminates.
func (k ArtifactKind) IsIntermediate() bool {
	return k != ArtifactTranscript
}

// JobFailure records where a job failed. Cause keeps the stage error for diagnostics.
type JobFailure struct {
	Stage JobState `json:"stage"`
	Cause error    `json:"-"`
	// Message is Cause rendered, kept so snapshots survive serialization.
	Message string `json:"message"`
}

// Job is one submission's unit of work.
type Job struct {
	ID           string                  `json:"id"`
	OriginalName string                  `json:"original_name"`
	State        JobState                `json:"state"`
	Failure      *JobFailure             `json:"failure,omitempty"`
	Artifacts    map[ArtifactKind]string `json:"artifacts"`
	SubmittedAt  time.Time               `json:"submitted_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// NewJob creates a job in the received state.
func NewJob(id, originalName string, now time.Time) *Job {
	return &Job{
		ID:           id,
		OriginalName: originalName,
		State:        JobStateReceived,
		Artifacts:    make(map[ArtifactKind]string),
		SubmittedAt:  now,
		UpdatedAt:    now,
	}
}

// Transition moves the job to the next state, enforcing the pipeline order.
func (j *Job) Transition(to JobState, now time.Time) error {
	if !isValidTransition(j.State, to) {
		return fmt.Errorf("invalid transition: %s -> %s", j.State, to)
	}
	j.State = to
	j.UpdatedAt = now
	return nil
}

// Fail moves the job to the failed state, remembering the stage it failed in.
func (j *Job) Fail(cause error, now time.Time) error {
	stage := j.State
	if err := j.Transition(JobStateFailed, now); err != nil {
		return err
	}
	f := &JobFailure{Stage: stage, Cause: cause}
	if cause != nil {
		f.Message = cause.Error()
	}
	j.Failure = f
	return nil
}

// SetArtifact records the location of an artifact; an empty location forgets it.
func (j *Job) SetArtifact(kind ArtifactKind, location string) {
	if location == "" {
		delete(j.Artifacts, kind)
		return
	}
	j.Artifacts[kind] = location
}

// Snapshot returns a copy safe to hand to other goroutines.
func (j *Job) Snapshot() Job {
	c := *j
	c.Artifacts = make(map[ArtifactKind]string, len(j.Artifacts))
	for k, v := range j.Artifacts {
		c.Artifacts[k] = v
	}
	if j.Failure != nil {
		f := *j.Failure
		c.Failure = &f
	}
	return c
}

// isValidTransition enforces the allowed job state machine edges.
func isValidTransition(from, to JobState) bool {
	if from.IsTerminal() {
		return false
	}
	if to == JobStateFailed {
		return true
	}
	switch from {
	case JobStateReceived:
		return to == JobStateConverting
	case JobStateConverting:
		return to == JobStateExtracting
	case JobStateExtracting:
		return to == JobStateNormalizing
	case JobStateNormalizing:
		return to == JobStateStored
	default:
		return false
	}
}
