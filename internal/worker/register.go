// Package worker wires pipeline components into Temporal activities and
// registers them, along with the workflows, on a worker.
package worker

import (
	"context"

	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/rai-eval/internal/evaluation"
	"github.com/ahrav/rai-eval/internal/llm"
	"github.com/ahrav/rai-eval/internal/probe"
	"github.com/ahrav/rai-eval/internal/review"
	"github.com/ahrav/rai-eval/internal/store"
	"github.com/ahrav/rai-eval/internal/synthesis"
	"github.com/ahrav/rai-eval/internal/workflow"
)

// Activities holds the pipeline services behind the Temporal activity
// surface. Dependencies are injected at worker startup; no global state.
type Activities struct {
	synthesis   *synthesis.Service
	coordinator *evaluation.Coordinator
}

// NewActivities builds the activity set over a store and model client.
func NewActivities(st store.Store, llmClient llm.Client) *Activities {
	return &Activities{
		synthesis:   synthesis.NewService(st, synthesis.NewSynthesizer(llmClient)),
		coordinator: evaluation.NewCoordinator(st, probe.NewProber(), review.NewReviewer(llmClient)),
	}
}

// SynthesizeScenario generates and persists a scenario's question set.
// The service records failure on the scenario row; the activity error is
// informational for the workflow history.
func (a *Activities) SynthesizeScenario(ctx context.Context, scenarioID string) error {
	return a.synthesis.Process(ctx, scenarioID)
}

// RunEvaluation executes one evaluation run for the report.
func (a *Activities) RunEvaluation(ctx context.Context, reportID string) error {
	return a.coordinator.Run(ctx, reportID)
}

// RegisterAll registers workflows and activities with the worker. Call
// once during startup, before the worker runs.
func RegisterAll(w sdkworker.Worker, activities *Activities) {
	w.RegisterWorkflow(workflow.SynthesisWorkflow)
	w.RegisterWorkflow(workflow.EvaluationWorkflow)
	w.RegisterActivity(activities.SynthesizeScenario)
	w.RegisterActivity(activities.RunEvaluation)
}
