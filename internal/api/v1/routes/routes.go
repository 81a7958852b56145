package routes

import (
	"github.com/gin-gonic/gin"

	"audio-transcriber/internal/api/v1/handlers"
	"audio-transcriber/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	TranscriptionService services.TranscriptionService
	ExportService        services.ExportService
	MaxUploadBytes       int64
}

// RegisterRoutes registers the upload/download routes on root and the
// inspection routes on v1.
func RegisterRoutes(root gin.IRouter, v1 *gin.RouterGroup, container *ServiceContainer) {
	h := handlers.NewTranscriptionHandler(
		container.TranscriptionService,
		container.ExportService,
		container.MaxUploadBytes,
	)

	root.POST("/upload", h.Upload)
	root.GET("/download/:id", h.Download)

	jobs := v1.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/:id", h.GetJob)
	}

	transcripts := v1.Group("/transcripts")
	{
		transcripts.GET("", h.ListTranscripts)
		if container.ExportService != nil {
			transcripts.GET("/export", h.Export)
		}
	}
}
