package serve

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"audio-transcriber/cmd/transcriber/cmd/shared"
	"audio-transcriber/internal/api/server"
)

var (
	port          int
	shutdownGrace time.Duration
	writeTimeout  time.Duration
)

func init() {
	Cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides the configured port)")
	Cmd.Flags().DurationVar(&shutdownGrace, "shutdown-grace", 30*time.Second, "How long in-flight requests get to finish on shutdown")
	Cmd.Flags().DurationVar(&writeTimeout, "write-timeout", 0, "Response write timeout; 0 lets a synchronous upload run as long as its stages")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP upload and download service",
	Long: `Start the HTTP upload and download service

- POST /upload takes a multipart "audio" file and answers with the job ID
- GET /download/:id returns the plain-text transcript
- /api/v1 lists jobs and transcripts, /metrics exposes prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, cleanup, err := shared.Bootstrap(ctx, nil)
		if err != nil {
			return err
		}
		defer cleanup()

		cfg := application.Config
		if port > 0 {
			cfg.Server.Port = port
		}

		srv := server.NewServer(server.Config{
			Host:           cfg.Server.Host,
			Port:           cfg.Server.Port,
			CORSOrigins:    cfg.Server.CORSOrigins,
			MaxUploadBytes: cfg.Pipeline.MaxUploadBytes,
			ReadTimeout:    time.Minute,
			WriteTimeout:   writeTimeout,
			IdleTimeout:    2 * time.Minute,
			Development:    cfg.Logging.Development,
		}, application.Orchestrator, application.Metrics, application.Logger)

		return srv.Run(ctx, shutdownGrace)
	},
}
