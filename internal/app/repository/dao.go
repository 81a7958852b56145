package repository

import (
	"context"

	"audio-transcriber/internal/app/model"
)

// TranscriptDAO records where each finished transcript lives.
type TranscriptDAO interface {
	Close() error

	// Record stores a transcript record, replacing any record for the same job.
	Record(ctx context.Context, rec model.TranscriptRecord) error

	// Get returns the record for jobID or a NotFound error.
	Get(ctx context.Context, jobID string) (model.TranscriptRecord, error)

	// List returns the most recent records first, at most limit of them (0 means all).
	List(ctx context.Context, limit int) ([]model.TranscriptRecord, error)
}
