package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/model"
	"audio-transcriber/internal/app/repository"
)

// MockTranscriptDAO is a repository.TranscriptDAO backed by an in-memory map.
// A method with a testify expectation registered through On answers from
// that expectation instead; a successful Record is still kept in memory.
type MockTranscriptDAO struct {
	mock.Mock
	mu sync.RWMutex

	// In-memory storage
	records map[string]model.TranscriptRecord

	// State tracking
	CallHistory []string
	Closed      bool
}

var _ repository.TranscriptDAO = (*MockTranscriptDAO)(nil)

// NewMockTranscriptDAO creates an empty DAO.
func NewMockTranscriptDAO() *MockTranscriptDAO {
	return &MockTranscriptDAO{
		records: make(map[string]model.TranscriptRecord),
	}
}

// expects records the call and reports whether a test set up method with On.
func (m *MockTranscriptDAO) expects(method string) bool {
	m.CallHistory = append(m.CallHistory, method)
	for _, call := range m.ExpectedCalls {
		if call.Method == method {
			return true
		}
	}
	return false
}

// Close implements the TranscriptDAO interface
func (m *MockTranscriptDAO) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expects("Close") {
		if err := m.Called().Error(0); err != nil {
			return err
		}
	}
	m.Closed = true
	return nil
}

// Record implements the TranscriptDAO interface
func (m *MockTranscriptDAO) Record(ctx context.Context, rec model.TranscriptRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expects("Record") {
		if err := m.Called(ctx, rec).Error(0); err != nil {
			return err
		}
	}
	m.records[rec.JobID] = rec
	return nil
}

// Get implements the TranscriptDAO interface
func (m *MockTranscriptDAO) Get(ctx context.Context, jobID string) (model.TranscriptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expects("Get") {
		args := m.Called(ctx, jobID)
		rec, _ := args.Get(0).(model.TranscriptRecord)
		return rec, args.Error(1)
	}
	rec, ok := m.records[jobID]
	if !ok {
		return model.TranscriptRecord{}, apperrors.NotFound("transcript", jobID)
	}
	return rec, nil
}

// List implements the TranscriptDAO interface
func (m *MockTranscriptDAO) List(ctx context.Context, limit int) ([]model.TranscriptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expects("List") {
		args := m.Called(ctx, limit)
		recs, _ := args.Get(0).([]model.TranscriptRecord)
		return recs, args.Error(1)
	}

	result := make([]model.TranscriptRecord, 0, len(m.records))
	for _, rec := range m.records {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].JobID > result[j].JobID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Count returns the number of stored records.
func (m *MockTranscriptDAO) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
