package migrate

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audio-transcriber/cmd/transcriber/cmd/shared"
	"audio-transcriber/internal/app"
	recordmigrate "audio-transcriber/internal/app/repository/migrate"
)

var (
	from string
	to   string
)

func init() {
	Cmd.Flags().StringVar(&from, "from", "sqlite", "Backend to read records from (sqlite or postgres)")
	Cmd.Flags().StringVar(&to, "to", "postgres", "Backend to write records to (sqlite or postgres)")
}

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy transcript records between the sqlite and postgres backends",
	Long: `Copy transcript records between the sqlite and postgres backends

Both backends are taken from the records section of the configuration.
Existing records in the target are updated in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if from == to {
			return fmt.Errorf("--from and --to must differ")
		}

		cfg, err := shared.LoadConfig()
		if err != nil {
			return err
		}
		logger, err := shared.NewLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()
		src, closeSrc, err := app.OpenRecords(ctx, from, cfg.Records)
		if err != nil {
			return err
		}
		defer closeSrc()

		dst, closeDst, err := app.OpenRecords(ctx, to, cfg.Records)
		if err != nil {
			return err
		}
		defer closeDst()

		res, err := recordmigrate.Copy(ctx, src, dst, logger)
		if err != nil {
			return err
		}
		logger.Info("Migration finished",
			zap.String("from", from),
			zap.String("to", to),
			zap.Int("copied", res.Copied),
			zap.Int("skipped", res.Skipped))
		return nil
	},
}
