package worker

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"audio-transcriber/cmd/transcriber/cmd/shared"
	"audio-transcriber/internal/app/temporal/activities"
	"audio-transcriber/internal/app/temporal/pkg/common"
	tworker "audio-transcriber/internal/app/temporal/worker"
	"audio-transcriber/internal/config"
)

var healthAddr string

func init() {
	Cmd.Flags().StringVar(&healthAddr, "health-addr", ":8081", "Address for /health, /live and /ready; empty disables them")
}

// Cmd represents the worker command
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the transcription stages for jobs submitted through Temporal",
	Long: `Run the transcription stages for jobs submitted through Temporal

The worker must share the staging directory and the output store with the
processes that submit jobs. Temporal retries each stage, so the worker runs
every stage attempt once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, cleanup, err := shared.Bootstrap(ctx, func(cfg *config.Config) {
			cfg.Pipeline.MaxAttempts = 1
		})
		if err != nil {
			return err
		}
		defer cleanup()

		cfg := application.Config
		c, err := common.NewTemporalClient(cfg.Temporal, application.Logger)
		if err != nil {
			return err
		}
		defer c.Close()

		return tworker.Run(ctx, c, activities.NewActivities(application.Orchestrator), tworker.Options{
			TaskQueue:  cfg.Temporal.TaskQueue,
			Endpoint:   cfg.Temporal.HostPort,
			HealthAddr: healthAddr,
		}, application.Logger)
	},
}
