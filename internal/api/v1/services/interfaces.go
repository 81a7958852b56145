package services

import (
	"context"
	"io"

	"audio-transcriber/internal/api/v1/dto"
)

// TranscriptionService defines the operations behind the HTTP adapter.
type TranscriptionService interface {
	// Upload transcribes data end to end.
	Upload(ctx context.Context, data []byte, originalName string) (*dto.UploadResponse, error)
	// Download returns the transcript of a stored job.
	Download(ctx context.Context, jobID string) ([]byte, error)
	GetJob(ctx context.Context, jobID string) (*dto.JobResponse, error)
	ListJobs(ctx context.Context, limit int) (*dto.JobListResponse, error)
	ListTranscripts(ctx context.Context, limit int) (*dto.TranscriptListResponse, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	ExportTranscripts(ctx context.Context, query dto.ExportQuery, writer io.Writer) error
}
