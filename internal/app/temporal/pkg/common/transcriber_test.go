package common

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/model"
	"audio-transcriber/internal/app/pipeline"
	"audio-transcriber/internal/app/storage"
	"audio-transcriber/internal/app/temporal/workflows"
	"audio-transcriber/internal/app/testutil"
)

func newOrchestrator(t *testing.T) *pipeline.Orchestrator {
	t.Helper()
	staging, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	output, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return pipeline.New(staging, output, testutil.NewFakeToolchain(), nil, nil, nil, nil, pipeline.Options{MaxAttempts: 1})
}

func TestDurableTranscriber_Transcribe(t *testing.T) {
	orch := newOrchestrator(t)
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}

	var started workflows.TranscribeRequest
	c.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
		return o.TaskQueue == "transcription-queue"
	}), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { started = args.Get(3).(workflows.TranscribeRequest) }).
		Return(run, nil)
	run.On("GetID").Return("transcribe-x").Maybe()
	run.On("Get", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(1).(*workflows.TranscribeResult)
			out.JobID = started.JobID
			out.Transcript = started.JobID + ".txt"
		}).
		Return(nil)

	d := NewDurableTranscriber(c, orch, "transcription-queue", pipeline.Options{MaxAttempts: 3}, nil)
	res, err := d.Transcribe(context.Background(), []byte("audio"), "talk.m4a")

	require.NoError(t, err)
	assert.Equal(t, 3, started.MaxAttempts)
	assert.Equal(t, "talk.m4a", started.OriginalName)
	assert.Equal(t, storage.Location(started.JobID+".txt"), res.Transcript)
	assert.Equal(t, started.JobID, res.Job.ID)
	c.AssertExpectations(t)
	run.AssertExpectations(t)
}

func TestDurableTranscriber_WorkflowFailure(t *testing.T) {
	orch := newOrchestrator(t)
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}

	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(run, nil)
	run.On("GetID").Return("transcribe-x")
	run.On("Get", mock.Anything, mock.Anything).Return(errors.New("workflow execution error"))

	d := NewDurableTranscriber(c, orch, "q", pipeline.Options{MaxAttempts: 1}, nil)
	res, err := d.Transcribe(context.Background(), []byte("audio"), "talk.m4a")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrJobFailed)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Job.ID)
}

func TestDurableTranscriber_StartFailureSettlesJob(t *testing.T) {
	orch := newOrchestrator(t)
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	d := NewDurableTranscriber(c, orch, "q", pipeline.Options{MaxAttempts: 1}, nil)
	res, err := d.Transcribe(context.Background(), []byte("audio"), "talk.m4a")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrJobFailed)
	assert.Nil(t, res)

	jobs, err := orch.Jobs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, model.JobStateFailed, jobs[0].State)
	assert.Empty(t, jobs[0].Artifacts[model.ArtifactStagedInput])
}

func TestDurableTranscriber_EmptyUpload(t *testing.T) {
	c := &mocks.Client{}
	d := NewDurableTranscriber(c, newOrchestrator(t), "q", pipeline.Options{}, nil)

	_, err := d.Transcribe(context.Background(), nil, "empty.m4a")

	assert.ErrorIs(t, err, apperrors.ErrJobFailed)
	c.AssertNotCalled(t, "ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
