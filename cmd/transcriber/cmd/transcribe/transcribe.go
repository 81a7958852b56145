package transcribe

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audio-transcriber/cmd/transcriber/cmd/shared"
	"audio-transcriber/internal/app"
	"audio-transcriber/internal/app/converter"
	"audio-transcriber/internal/app/temporal/pkg/common"
)

var (
	dir          string
	ext          string
	limit        int
	parallel     int
	showProgress bool
	durable      bool
)

func init() {
	Cmd.Flags().StringVarP(&dir, "dir", "d", "", "Transcribe every file in this directory instead of the given files")
	Cmd.Flags().StringVarP(&ext, "ext", "e", "m4a", "File extension to pick up with --dir")
	Cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Transcribe at most this many files from --dir (0 = all)")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Files transcribed at once")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar even when stderr is not a terminal")
	Cmd.Flags().BoolVar(&durable, "temporal", false, "Run the stages on Temporal workers sharing the staging directory")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe [files...]",
	Short: "Transcribe local audio files",
	Long: `Transcribe local audio files

- Every file becomes one job and one transcript
- A failed file does not stop the batch; the command fails if any file failed
- Prints "<file>\t<job-id>\t<transcript>" per stored file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dir == "" && len(args) == 0 {
			return fmt.Errorf("no files given; pass files or --dir")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, cleanup, err := shared.Bootstrap(ctx, nil)
		if err != nil {
			return err
		}
		defer cleanup()

		transcriber, closeTranscriber, err := newTranscriber(application)
		if err != nil {
			return err
		}
		defer closeTranscriber()

		progress := converter.NewProgress(converter.ProgressConfig{
			Enabled: converter.ShouldShowProgress(showProgress),
			Writer:  cmd.ErrOrStderr(),
		})
		conv := converter.NewConverter(transcriber, progress, application.Logger)

		var outcomes []converter.Outcome
		if dir != "" {
			outcomes, err = conv.ConvertDir(ctx, dir, ext, limit, parallel)
			if err != nil {
				return err
			}
		} else {
			outcomes = conv.ConvertFiles(ctx, args, parallel)
		}

		out := cmd.OutOrStdout()
		for _, o := range outcomes {
			if o.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\t%v\n", o.Path, o.Err)
				continue
			}
			fmt.Fprintf(out, "%s\t%s\t%s\n", o.Path, o.JobID, o.Transcript)
		}

		if failed := converter.Failed(outcomes); failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
		}
		return nil
	},
}

func newTranscriber(application *app.App) (converter.Transcriber, func(), error) {
	if !durable {
		return application.Orchestrator, func() {}, nil
	}

	cfg := application.Config
	c, err := common.NewTemporalClient(cfg.Temporal, application.Logger)
	if err != nil {
		return nil, nil, err
	}
	application.Logger.Info("Submitting jobs to Temporal",
		zap.String("host", cfg.Temporal.HostPort),
		zap.String("task_queue", cfg.Temporal.TaskQueue))

	opts := app.PipelineOptions(cfg)
	return common.NewDurableTranscriber(c, application.Orchestrator, cfg.Temporal.TaskQueue, opts, application.Logger), c.Close, nil
}
