package migrate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/repository"
)

// Result summarizes one copy run.
type Result struct {
	Copied  int
	Skipped int
}

// Copy replays every record of src into dst. Records missing a job ID or a
// location are skipped; a failed insert aborts the run.
func Copy(ctx context.Context, src, dst repository.TranscriptDAO, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	records, err := src.List(ctx, 0)
	if err != nil {
		return Result{}, apperrors.Wrap(err, "read source records")
	}

	var res Result
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		// Data validation
		if strings.TrimSpace(rec.JobID) == "" || strings.TrimSpace(rec.Location) == "" {
			logger.Warn("skipping invalid record", zap.String("job_id", rec.JobID))
			res.Skipped++
			continue
		}

		if err := dst.Record(ctx, rec); err != nil {
			return res, apperrors.Wrapf(err, "copy record %s", rec.JobID)
		}
		res.Copied++
	}

	logger.Info("data migration completed", zap.Int("copied", res.Copied), zap.Int("skipped", res.Skipped))
	return res, nil
}
