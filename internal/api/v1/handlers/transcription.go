package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"audio-transcriber/internal/api/errors"
	"audio-transcriber/internal/api/middleware"
	"audio-transcriber/internal/api/v1/dto"
	"audio-transcriber/internal/api/v1/services"
	"audio-transcriber/internal/app/converter/export"
	apperrors "audio-transcriber/internal/app/errors"
)

// UploadField is the multipart field carrying the recording.
const UploadField = "audio"

// TranscriptionHandler handles upload, download and inspection endpoints
type TranscriptionHandler struct {
	service        services.TranscriptionService
	exporter       services.ExportService
	maxUploadBytes int64
}

// NewTranscriptionHandler creates a new transcription handler. exporter may be nil.
func NewTranscriptionHandler(service services.TranscriptionService, exporter services.ExportService, maxUploadBytes int64) *TranscriptionHandler {
	return &TranscriptionHandler{
		service:        service,
		exporter:       exporter,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload handles POST /upload
//
// @Summary Transcribe an audio file
// @Description Uploads a recording, runs the whole pipeline and returns the stored transcript's name
// @Tags transcriptions
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio file to transcribe"
// @Success 200 {object} dto.UploadResponse "Transcription complete"
// @Failure 400 {object} errors.APIError "No file uploaded"
// @Failure 500 {object} errors.APIError "Error processing file"
// @Router /upload [post]
func (h *TranscriptionHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile(UploadField)
	if err != nil || fileHeader.Size == 0 {
		middleware.HandleError(c, errors.NewBadRequestError("No file uploaded"))
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		middleware.HandleError(c, errors.NewBadRequestError(
			fmt.Sprintf("File exceeds the %d byte limit", h.maxUploadBytes)))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Failed to open uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Failed to read uploaded file"))
		return
	}

	response, err := h.service.Upload(c.Request.Context(), data, fileHeader.Filename)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Download handles GET /download/:id
//
// @Summary Download a transcript
// @Description Returns the plain-text transcript of a stored job. The id may carry the .txt suffix returned as outputFile.
// @Tags transcriptions
// @Produce plain
// @Param id path string true "Job ID"
// @Success 200 {file} file "Transcript"
// @Failure 404 {object} errors.APIError "Transcript not found"
// @Router /download/{id} [get]
func (h *TranscriptionHandler) Download(c *gin.Context) {
	jobID := c.Param("id")
	if strings.TrimSuffix(jobID, ".txt") == "" {
		middleware.HandleError(c, errors.NewNotFoundError("transcript"))
		return
	}

	// an upload named "notes.txt" yields a job id ending in ".txt" too
	text, err := h.service.Download(c.Request.Context(), jobID)
	if apperrors.KindOf(err) == apperrors.KindNotFound && strings.HasSuffix(jobID, ".txt") {
		jobID = strings.TrimSuffix(jobID, ".txt")
		text, err = h.service.Download(c.Request.Context(), jobID)
	}
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", jobID+".txt"))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", text)
}

// GetJob handles GET /api/v1/jobs/:id
//
// @Summary Get a job
// @Description Returns the latest snapshot of a job's state
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobResponse "Job snapshot"
// @Failure 404 {object} errors.APIError "Job not found"
// @Router /api/v1/jobs/{id} [get]
func (h *TranscriptionHandler) GetJob(c *gin.Context) {
	response, err := h.service.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ListJobs handles GET /api/v1/jobs
//
// @Summary List jobs
// @Description Lists recent job snapshots, newest first
// @Tags jobs
// @Produce json
// @Param limit query int false "Maximum number of jobs" minimum(1) maximum(500)
// @Success 200 {object} dto.JobListResponse "Job snapshots"
// @Failure 422 {object} errors.APIError "Invalid query parameters"
// @Router /api/v1/jobs [get]
func (h *TranscriptionHandler) ListJobs(c *gin.Context) {
	var query dto.ListQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ListJobs(c.Request.Context(), query.Limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ListTranscripts handles GET /api/v1/transcripts
//
// @Summary List transcripts
// @Description Lists stored transcript records, newest first
// @Tags transcriptions
// @Produce json
// @Param limit query int false "Maximum number of records" minimum(1) maximum(500)
// @Success 200 {object} dto.TranscriptListResponse "Stored transcripts"
// @Failure 422 {object} errors.APIError "Invalid query parameters"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /api/v1/transcripts [get]
func (h *TranscriptionHandler) ListTranscripts(c *gin.Context) {
	var query dto.ListQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ListTranscripts(c.Request.Context(), query.Limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Export handles GET /api/v1/transcripts/export
//
// @Summary Export transcripts
// @Description Exports stored transcript records as xlsx, csv or json
// @Tags transcriptions
// @Produce octet-stream
// @Param format query string false "Export format" Enums(xlsx,csv,json) default(xlsx)
// @Param limit query int false "Maximum number of records" minimum(1) maximum(10000)
// @Success 200 {file} file "Exported records"
// @Failure 422 {object} errors.APIError "Invalid query parameters"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /api/v1/transcripts/export [get]
func (h *TranscriptionHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}
	if query.Format == "" {
		query.Format = export.FormatXLSX
	}

	// buffer so a failed export can still answer with a JSON error
	var buf bytes.Buffer
	if err := h.exporter.ExportTranscripts(c.Request.Context(), query, &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}

	contentType, filename := export.ContentType(query.Format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
