package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/model"
)

func TestMockTranscriptDAO_InMemory(t *testing.T) {
	dao := NewMockTranscriptDAO()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, dao.Record(ctx, model.TranscriptRecord{JobID: "a", CreatedAt: now}))
	require.NoError(t, dao.Record(ctx, model.TranscriptRecord{JobID: "b", CreatedAt: now.Add(time.Second)}))

	rec, err := dao.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.JobID)

	_, err = dao.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	recs, err := dao.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].JobID)

	require.NoError(t, dao.Close())
	assert.True(t, dao.Closed)
	assert.Equal(t, 2, dao.Count())
	assert.Equal(t, []string{"Record", "Record", "Get", "Get", "List", "Close"}, dao.CallHistory)
}

func TestMockTranscriptDAO_Expectations(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(m *MockTranscriptDAO)
		call      func(m *MockTranscriptDAO) error
		wantErr   error
		wantCount int
	}{
		{
			name: "record_error",
			setup: func(m *MockTranscriptDAO) {
				m.On("Record", mock.Anything, mock.Anything).Return(errors.New("database is locked"))
			},
			call: func(m *MockTranscriptDAO) error {
				return m.Record(context.Background(), model.TranscriptRecord{JobID: "a"})
			},
			wantErr: errors.New("database is locked"),
		},
		{
			name: "record_allowed",
			setup: func(m *MockTranscriptDAO) {
				m.On("Record", mock.Anything, mock.MatchedBy(func(r model.TranscriptRecord) bool {
					return r.JobID == "a"
				})).Return(nil).Once()
			},
			call: func(m *MockTranscriptDAO) error {
				return m.Record(context.Background(), model.TranscriptRecord{JobID: "a"})
			},
			wantCount: 1,
		},
		{
			name: "get_canned_record",
			setup: func(m *MockTranscriptDAO) {
				m.On("Get", mock.Anything, "a").Return(model.TranscriptRecord{JobID: "a"}, nil)
			},
			call: func(m *MockTranscriptDAO) error {
				rec, err := m.Get(context.Background(), "a")
				if err == nil && rec.JobID != "a" {
					return errors.New("unexpected record")
				}
				return err
			},
		},
		{
			name: "list_error",
			setup: func(m *MockTranscriptDAO) {
				m.On("List", mock.Anything, 5).Return(nil, errors.New("connection reset"))
			},
			call: func(m *MockTranscriptDAO) error {
				_, err := m.List(context.Background(), 5)
				return err
			},
			wantErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dao := NewMockTranscriptDAO()
			tt.setup(dao)

			err := tt.call(dao)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCount, dao.Count())
			dao.AssertExpectations(t)
		})
	}
}
