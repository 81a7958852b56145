// Package jobs keeps job snapshots so callers can inspect a submission by ID.
package jobs

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/model"
)

// Registry stores the latest snapshot of each job.
type Registry interface {
	Put(ctx context.Context, job model.Job) error
	// Get returns a NotFound error for unknown IDs.
	Get(ctx context.Context, id string) (model.Job, error)
	// List returns the most recently submitted jobs first, at most limit (0 means all).
	List(ctx context.Context, limit int) ([]model.Job, error)
}

// MemoryRegistry is a process-local Registry.
type MemoryRegistry struct {
	mu   sync.RWMutex
	jobs map[string]model.Job
}

var _ Registry = (*MemoryRegistry)(nil)

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{jobs: make(map[string]model.Job)}
}

func (r *MemoryRegistry) Put(_ context.Context, job model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job.Snapshot()
	return nil
}

func (r *MemoryRegistry) Get(_ context.Context, id string) (model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return model.Job{}, apperrors.NotFound("job", id)
	}
	return job.Snapshot(), nil
}

func (r *MemoryRegistry) List(_ context.Context, limit int) ([]model.Job, error) {
	r.mu.RLock()
	all := lo.MapToSlice(r.jobs, func(_ string, j model.Job) model.Job { return j.Snapshot() })
	r.mu.RUnlock()

	sortNewestFirst(all)
	return truncate(all, limit), nil
}

func sortNewestFirst(all []model.Job) {
	sort.Slice(all, func(i, j int) bool {
		if all[i].SubmittedAt.Equal(all[j].SubmittedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].SubmittedAt.After(all[j].SubmittedAt)
	})
}

func truncate(all []model.Job, limit int) []model.Job {
	if limit > 0 && len(all) > limit {
		return all[:limit]
	}
	return all
}
