package pipeline

import (
	"context"

	"go.uber.org/zap"

	"audio-transcriber/internal/app/storage"
)

// CleanupFailure is one intermediate artifact that could not be removed.
type CleanupFailure struct {
	Location storage.Location `json:"location"`
	Err      error            `json:"-"`
	Message  string           `json:"message"`
}

// CleanupReport lists what Cleanup removed and what it could not.
// It never changes a job's outcome.
type CleanupReport struct {
	Removed  []storage.Location `json:"removed"`
	Failures []CleanupFailure   `json:"failures,omitempty"`
}

// OK reports whether every intermediate artifact is gone.
func (r CleanupReport) OK() bool {
	return len(r.Failures) == 0
}

// intermediateKeys are every key a job may leave in the staging namespace.
func intermediateKeys(jobID string) []string {
	return []string{stagedKey(jobID), waveformKey(jobID), captionKey(jobID)}
}

// Cleanup removes the staged input, waveform and caption track of jobID.
// Missing artifacts are fine; errors are collected, not returned.
func Cleanup(ctx context.Context, staging storage.Store, jobID string, logger *zap.Logger) CleanupReport {
	var report CleanupReport
	for _, key := range intermediateKeys(jobID) {
		loc := storage.Location(key)
		if err := staging.Delete(ctx, loc); err != nil {
			logger.Warn("failed to remove intermediate artifact",
				zap.String("job_id", jobID),
				zap.Stringer("location", loc),
				zap.Error(err))
			report.Failures = append(report.Failures, CleanupFailure{Location: loc, Err: err, Message: err.Error()})
			continue
		}
		report.Removed = append(report.Removed, loc)
	}
	return report
}
