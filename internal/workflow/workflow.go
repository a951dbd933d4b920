// Package workflow defines the Temporal workflows that launch pipeline
// work out-of-band: scenario question synthesis and evaluation runs.
//
// Each workflow executes a single long-running activity. Both units of
// work record their own outcome in entity state (scenario status, report
// rows), so workflow-level retries are disabled: re-running a failed unit
// is an operator decision, not an automatic one.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// TaskQueue is the queue both workflows and the worker share.
const TaskQueue = "rai-eval"

// Activity names as registered by the worker.
const (
	ActivitySynthesizeScenario = "SynthesizeScenario"
	ActivityRunEvaluation      = "RunEvaluation"
)

// Per-unit ceilings. Individual model calls are bounded at 900s and probe
// calls at 10s, but throttling retries are unbounded by design, so these
// are generous last-resort caps rather than SLAs.
const (
	synthesisTimeout  = 4 * time.Hour
	evaluationTimeout = 24 * time.Hour
)

func singleAttemptOptions(timeout time.Duration) workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
}

// SynthesisWorkflow generates and persists the question set for a
// scenario created in PROCESSING state. Failures are recorded on the
// scenario row; callers observe them by polling status.
func SynthesisWorkflow(ctx workflow.Context, scenarioID string) error {
	ctx = workflow.WithActivityOptions(ctx, singleAttemptOptions(synthesisTimeout))
	return workflow.ExecuteActivity(ctx, ActivitySynthesizeScenario, scenarioID).Get(ctx, nil)
}

// EvaluationWorkflow runs one evaluation for an already-persisted report.
func EvaluationWorkflow(ctx workflow.Context, reportID string) error {
	ctx = workflow.WithActivityOptions(ctx, singleAttemptOptions(evaluationTimeout))
	return workflow.ExecuteActivity(ctx, ActivityRunEvaluation, reportID).Get(ctx, nil)
}
