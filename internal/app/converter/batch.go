// Package converter runs the transcription pipeline over local files in bulk.
package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"audio-transcriber/internal/app/pipeline"
)

// Transcriber runs one upload through the pipeline.
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, originalName string) (*pipeline.Result, error)
}

// Outcome is the result of one file in a batch.
type Outcome struct {
	Path       string
	JobID      string
	Transcript string
	Err        error
}

type Converter struct {
	transcriber Transcriber
	progress    *Progress
	logger      *zap.Logger
}

func NewConverter(transcriber Transcriber, progress *Progress, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		transcriber: transcriber,
		progress:    progress,
		logger:      logger,
	}
}

// ConvertFiles transcribes paths with at most parallel files in flight and
// returns outcomes in input order. A failed file does not stop the batch.
func (c *Converter) ConvertFiles(ctx context.Context, paths []string, parallel int) []Outcome {
	outcomes := make([]Outcome, len(paths))
	if len(paths) == 0 {
		return outcomes
	}
	if parallel < 1 {
		parallel = 1
	}

	bar := c.progress.AddBar(len(paths), "Transcribing")
	defer c.progress.Wait()

	var wg sync.WaitGroup
	sem := make(chan struct{}, parallel)

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				outcomes[i] = Outcome{Path: path, Err: ctx.Err()}
				bar.Increment(0)
				return
			}
			start := time.Now()
			outcomes[i] = c.convertFile(ctx, path)
			<-sem
			bar.Increment(time.Since(start))
		}(i, path)
	}
	wg.Wait()
	return outcomes
}

func (c *Converter) convertFile(ctx context.Context, path string) Outcome {
	out := Outcome{Path: path}
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		out.Err = fmt.Errorf("failed to read %s: %w", path, err)
		c.logger.Error("cannot read input", zap.String("path", path), zap.Error(err))
		return out
	}

	res, err := c.transcriber.Transcribe(ctx, data, name)
	if res != nil {
		out.JobID = res.Job.ID
		out.Transcript = res.Transcript.String()
	}
	if err != nil {
		out.Err = err
		c.logger.Error("transcription failed", zap.String("file", name), zap.String("job_id", out.JobID), zap.Error(err))
		return out
	}

	c.logger.Info("transcription complete", zap.String("file", name), zap.String("job_id", out.JobID))
	return out
}

// ConvertDir transcribes up to limit files in dir whose extension matches ext,
// in name order. limit <= 0 means all.
func (c *Converter) ConvertDir(ctx context.Context, dir, ext string, limit, parallel int) ([]Outcome, error) {
	paths, err := ListFiles(dir, ext)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	c.logger.Info("converting directory", zap.String("dir", dir), zap.Int("files", len(paths)))
	return c.ConvertFiles(ctx, paths, parallel), nil
}

// ListFiles returns the regular files in dir with extension ext (case
// insensitive, with or without the dot), sorted by name.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if ext != "" && strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Name()), ".")) != ext {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Failed counts outcomes with an error.
func Failed(outcomes []Outcome) int {
	return lo.CountBy(outcomes, func(o Outcome) bool { return o.Err != nil })
}
