// Package store is the persistence gateway for scenarios, synthesized
// questions, evaluation reports, and per-question results.
//
// Two implementations share the Store interface: a sqlite-backed store for
// real deployments and a mutex-guarded in-memory store for tests and local
// runs. Identifier allocation is an atomic counter per entity table; the
// counters live in their own table (or map) and therefore can never leak
// into entity listings.
package store

import (
	"context"

	"github.com/ahrav/rai-eval/internal/domain"
)

// Store is the persistence contract the pipeline depends on. All writes
// are blind upserts with no optimistic-concurrency check except status
// transitions, which are conditional on the current status. Callers treat
// write failures during a run as best-effort: logged, not retried.
type Store interface {
	// Counter allocation. Each call atomically increments the named
	// entity counter and returns the new value; the first call on a
	// fresh store yields 1. Concurrent calls never return duplicates.
	NextScenarioID(ctx context.Context) (int64, error)
	NextScenarioQuestionID(ctx context.Context) (int64, error)
	NextReportID(ctx context.Context) (int64, error)
	NextReportQuestionID(ctx context.Context) (int64, error)

	PutScenario(ctx context.Context, s domain.Scenario) error
	GetScenario(ctx context.Context, id string) (domain.Scenario, error)
	// UpdateScenarioStatus transitions a scenario out of PROCESSING.
	// Returns domain.ErrInvalidTransition when the scenario is already
	// terminal and domain.ErrScenarioNotFound when the row is missing.
	UpdateScenarioStatus(ctx context.Context, id string, status domain.ScenarioStatus, errorMessage string) error

	PutScenarioQuestion(ctx context.Context, q domain.ScenarioQuestion) error
	ListScenarioQuestions(ctx context.Context, scenarioID string) ([]domain.ScenarioQuestion, error)

	PutReport(ctx context.Context, r domain.EvaluationReport) error
	GetReport(ctx context.Context, id string) (domain.EvaluationReport, error)
	// UpdateReportScores writes the overall score and the per-category
	// breakdown in a single update.
	UpdateReportScores(ctx context.Context, id string, score string, breakdown map[string]string) error

	PutReportQuestion(ctx context.Context, q domain.ReportQuestion) error
	ListReportQuestions(ctx context.Context, reportID string) ([]domain.ReportQuestion, error)
	// UpdateQuestionEvaluation records a human reviewer's score.
	UpdateQuestionEvaluation(ctx context.Context, reportID, questionID string, score int, eval domain.HumanEvaluation) error
	UpdateQuestionComments(ctx context.Context, reportID, questionID, comments string) error
}

// Counter names. One counter per entity table, mirroring the reserved
// sentinel rows of the original key/value layout.
const (
	counterScenarios         = "scenarios"
	counterScenarioQuestions = "scenario_questions"
	counterReports           = "evaluation_reports"
	counterReportQuestions   = "report_questions"
)
