package worker

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/ahrav/rai-eval/internal/workflow"
)

// TemporalLauncher starts pipeline workflows on a Temporal cluster. It is
// the production implementation of the API's Launcher dependency.
type TemporalLauncher struct {
	client    client.Client
	taskQueue string
}

// NewTemporalLauncher wraps an existing Temporal client.
func NewTemporalLauncher(c client.Client) *TemporalLauncher {
	return &TemporalLauncher{client: c, taskQueue: workflow.TaskQueue}
}

// StartSynthesis fires the synthesis workflow for a scenario and returns
// once the workflow is accepted; the caller polls scenario status for the
// outcome. The workflow id embeds the scenario id, so re-triggering the
// same scenario while synthesis is running is rejected by the server.
func (l *TemporalLauncher) StartSynthesis(ctx context.Context, scenarioID string) error {
	opts := client.StartWorkflowOptions{
		ID:        "synthesis-" + scenarioID,
		TaskQueue: l.taskQueue,
	}
	if _, err := l.client.ExecuteWorkflow(ctx, opts, workflow.SynthesisWorkflow, scenarioID); err != nil {
		return fmt.Errorf("starting synthesis workflow: %w", err)
	}
	return nil
}

// StartEvaluation fires the evaluation workflow for a report.
func (l *TemporalLauncher) StartEvaluation(ctx context.Context, reportID string) error {
	opts := client.StartWorkflowOptions{
		ID:        "evaluation-" + reportID,
		TaskQueue: l.taskQueue,
	}
	if _, err := l.client.ExecuteWorkflow(ctx, opts, workflow.EvaluationWorkflow, reportID); err != nil {
		return fmt.Errorf("starting evaluation workflow: %w", err)
	}
	return nil
}
