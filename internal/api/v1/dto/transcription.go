package dto

import (
	"time"

	"audio-transcriber/internal/app/model"
)

// UploadResponse is returned once an upload has been transcribed and stored.
type UploadResponse struct {
	Message    string `json:"message" example:"Transcription complete"`
	JobID      string `json:"jobId" example:"1714564800000-abcd1234-talk.m4a"`
	OutputFile string `json:"outputFile" example:"1714564800000-abcd1234-talk.m4a.txt"`
}

// JobFailureResponse tells where a job stopped.
type JobFailureResponse struct {
	Stage   string `json:"stage" example:"converting"`
	Message string `json:"message"`
}

// JobResponse is a job snapshot.
type JobResponse struct {
	ID           string              `json:"id"`
	OriginalName string              `json:"original_name"`
	State        string              `json:"state" example:"stored"`
	Failure      *JobFailureResponse `json:"failure,omitempty"`
	Transcript   string              `json:"transcript,omitempty"`
	SubmittedAt  time.Time           `json:"submitted_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// JobListResponse wraps a page of job snapshots.
type JobListResponse struct {
	Jobs  []JobResponse `json:"jobs"`
	Count int           `json:"count"`
}

// TranscriptResponse describes one stored transcript.
type TranscriptResponse struct {
	JobID        string    `json:"job_id"`
	OriginalName string    `json:"original_name"`
	OutputFile   string    `json:"output_file"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

// TranscriptListResponse wraps a page of transcripts.
type TranscriptListResponse struct {
	Transcripts []TranscriptResponse `json:"transcripts"`
	Count       int                  `json:"count"`
}

// ListQuery bounds list endpoints.
type ListQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ExportQuery selects the export encoding.
type ExportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=xlsx csv json"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=10000"`
}

// ToJobResponse converts a job snapshot. Failure messages are reduced to the
// stage so internal causes stay server-side.
func ToJobResponse(job model.Job) JobResponse {
	resp := JobResponse{
		ID:           job.ID,
		OriginalName: job.OriginalName,
		State:        string(job.State),
		Transcript:   job.Artifacts[model.ArtifactTranscript],
		SubmittedAt:  job.SubmittedAt,
		UpdatedAt:    job.UpdatedAt,
	}
	if job.Failure != nil {
		resp.Failure = &JobFailureResponse{
			Stage:   string(job.Failure.Stage),
			Message: "Error processing file",
		}
	}
	return resp
}

// ToTranscriptResponse converts a stored record.
func ToTranscriptResponse(rec model.TranscriptRecord) TranscriptResponse {
	return TranscriptResponse{
		JobID:        rec.JobID,
		OriginalName: rec.OriginalName,
		OutputFile:   rec.Location,
		SizeBytes:    rec.SizeBytes,
		CreatedAt:    rec.CreatedAt,
	}
}
