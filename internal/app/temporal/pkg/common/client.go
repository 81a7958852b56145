package common

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"audio-transcriber/internal/app/temporal/workflows"
	"audio-transcriber/internal/config"
)

// NewTemporalClient creates a new Temporal client with the given configuration
func NewTemporalClient(cfg config.TemporalConfig, logger *zap.Logger) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
		Logger:    NewZapAdapter(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}
	return c, nil
}

// StartTranscription starts the workflow for a submitted job. Starting the
// same job twice attaches to the running workflow.
func StartTranscription(ctx context.Context, c client.Client, taskQueue string, req workflows.TranscribeRequest) (client.WorkflowRun, error) {
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        workflows.WorkflowID(req.JobID),
		TaskQueue: taskQueue,
	}, workflows.TranscribeWorkflow, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start transcription of %s: %w", req.JobID, err)
	}
	return run, nil
}
