package services

import (
	"context"
	"io"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"audio-transcriber/internal/api/v1/dto"
	"audio-transcriber/internal/app/converter/export"
	"audio-transcriber/internal/app/model"
	"audio-transcriber/internal/app/pipeline"
)

// PipelineService implements TranscriptionService and ExportService
// over the pipeline orchestrator.
type PipelineService struct {
	orchestrator *pipeline.Orchestrator
	logger       *zap.Logger
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(orchestrator *pipeline.Orchestrator, logger *zap.Logger) *PipelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipelineService{orchestrator: orchestrator, logger: logger}
}

func (s *PipelineService) Upload(ctx context.Context, data []byte, originalName string) (*dto.UploadResponse, error) {
	res, err := s.orchestrator.Transcribe(ctx, data, originalName)
	if err != nil {
		return nil, err
	}
	return &dto.UploadResponse{
		Message:    "Transcription complete",
		JobID:      res.Job.ID,
		OutputFile: res.Transcript.String(),
	}, nil
}

func (s *PipelineService) Download(ctx context.Context, jobID string) ([]byte, error) {
	return s.orchestrator.Transcript(ctx, jobID)
}

func (s *PipelineService) GetJob(ctx context.Context, jobID string) (*dto.JobResponse, error) {
	job, err := s.orchestrator.Job(ctx, jobID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToJobResponse(job)
	return &resp, nil
}

func (s *PipelineService) ListJobs(ctx context.Context, limit int) (*dto.JobListResponse, error) {
	jobs, err := s.orchestrator.Jobs(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := lo.Map(jobs, func(j model.Job, _ int) dto.JobResponse { return dto.ToJobResponse(j) })
	return &dto.JobListResponse{Jobs: items, Count: len(items)}, nil
}

func (s *PipelineService) ListTranscripts(ctx context.Context, limit int) (*dto.TranscriptListResponse, error) {
	records, err := s.orchestrator.Transcripts(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := lo.Map(records, func(r model.TranscriptRecord, _ int) dto.TranscriptResponse {
		return dto.ToTranscriptResponse(r)
	})
	return &dto.TranscriptListResponse{Transcripts: items, Count: len(items)}, nil
}

// ExportTranscripts writes stored records in the requested format, xlsx by default.
func (s *PipelineService) ExportTranscripts(ctx context.Context, query dto.ExportQuery, writer io.Writer) error {
	records, err := s.orchestrator.Transcripts(ctx, query.Limit)
	if err != nil {
		return err
	}
	format := lo.Ternary(query.Format == "", export.FormatXLSX, query.Format)
	s.logger.Debug("exporting transcripts", zap.String("format", format), zap.Int("count", len(records)))
	return export.Write(writer, format, records)
}
