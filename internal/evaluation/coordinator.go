// Package evaluation orchestrates one evaluation run: it fans probe calls
// out across a bounded worker pool, reviews every answer with a second
// model pass, and persists the per-question results and baseline scores.
package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/rai-eval/internal/domain"
	"github.com/ahrav/rai-eval/internal/probe"
	"github.com/ahrav/rai-eval/internal/review"
	"github.com/ahrav/rai-eval/internal/store"
)

// DefaultWorkers is the worker-pool bound shared by the probe and review
// phases of a single run. Pools are per-run; concurrent runs do not share
// slots.
const DefaultWorkers = 10

// State names the coordinator's position in the run state machine. States
// advance strictly forward; FAILED is absorbing and reachable only from
// unrecoverable errors (missing or malformed report row).
type State string

const (
	StateFetchingQuestions State = "FETCHING_QUESTIONS"
	StateProbing           State = "PROBING"
	StateReviewing         State = "REVIEWING"
	StatePersisting        State = "PERSISTING"
	StateDone              State = "DONE"
	StateFailed            State = "FAILED"
)

// Coordinator runs evaluations. One Run per report id; runs are
// independent and share no mutable state beyond the store.
type Coordinator struct {
	store    store.Store
	prober   *probe.Prober
	reviewer *review.Reviewer
	logger   *slog.Logger
	workers  int
}

// NewCoordinator constructs a Coordinator with the default pool bound.
func NewCoordinator(st store.Store, prober *probe.Prober, reviewer *review.Reviewer) *Coordinator {
	return &Coordinator{
		store:    st,
		prober:   prober,
		reviewer: reviewer,
		logger:   slog.Default().With("component", "evaluation"),
		workers:  DefaultWorkers,
	}
}

// item carries one question through the probe and review phases.
type item struct {
	category       string
	question       string
	answer         string
	considerations string
}

// Run executes the evaluation for reportID. A missing report row is fatal
// (logged, no partial output); per-question probe and review failures are
// isolated and degrade that question only. Within each phase, completion
// order is unspecified, and the phases are separated by hard barriers.
func (c *Coordinator) Run(ctx context.Context, reportID string) error {
	log := c.logger.With("report_id", reportID)

	report, err := c.store.GetReport(ctx, reportID)
	if err != nil {
		log.Error("run aborted", "state", StateFailed, "error", err)
		return fmt.Errorf("loading report %s: %w", reportID, err)
	}

	log.Info("run starting", "state", StateFetchingQuestions, "scenario_id", report.ScenarioID)
	questions, err := c.store.ListScenarioQuestions(ctx, report.ScenarioID)
	if err != nil {
		log.Error("run aborted", "state", StateFailed, "error", err)
		return fmt.Errorf("loading scenario questions: %w", err)
	}

	items := make([]item, len(questions))
	for i, q := range questions {
		items[i] = item{category: q.Category, question: q.Text}
	}

	c.probeAll(ctx, log, report.Target, items)
	c.reviewAll(ctx, log, items)
	c.persistAll(ctx, log, reportID, items)

	// Baseline scores: every processed category starts at 1.0 pending
	// human evaluation.
	breakdown := make(map[string]string)
	for _, it := range items {
		breakdown[it.category] = "1.0"
	}
	if err := c.store.UpdateReportScores(ctx, reportID, "1.0", breakdown); err != nil {
		log.Error("failed to write baseline scores", "error", err)
		return fmt.Errorf("writing baseline scores: %w", err)
	}

	log.Info("run finished", "state", StateDone, "questions", len(items), "categories", len(breakdown))
	return nil
}

// probeAll fans out one probe call per question on the bounded pool and
// joins all results before returning. Probing never fails an item: the
// prober captures failures as answer text.
func (c *Coordinator) probeAll(ctx context.Context, log *slog.Logger, target domain.TargetConfig, items []item) {
	log.Info("probing target", "state", StateProbing, "questions", len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range items {
		g.Go(func() error {
			result := c.prober.Probe(ctx, target, items[i].question)
			items[i].answer = result.Answer
			return nil
		})
	}
	_ = g.Wait() // Workers never return errors; Wait is the phase barrier.
}

// reviewAll fans out one review call per probed pair and joins all results.
// A review failure degrades that question to empty considerations instead
// of aborting the batch.
func (c *Coordinator) reviewAll(ctx context.Context, log *slog.Logger, items []item) {
	log.Info("reviewing answers", "state", StateReviewing, "questions", len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range items {
		g.Go(func() error {
			result, err := c.reviewer.Review(ctx, items[i].category, items[i].question, items[i].answer)
			if err != nil {
				log.Warn("review failed, degrading question",
					"category", items[i].category, "error", err)
				return nil
			}
			items[i].considerations = result.Considerations
			return nil
		})
	}
	_ = g.Wait()
}

// persistAll allocates ids and writes one ReportQuestion per item. Store
// failures here are best-effort: logged and skipped, per the persistence
// policy (the store client owns its own retries).
func (c *Coordinator) persistAll(ctx context.Context, log *slog.Logger, reportID string, items []item) {
	log.Info("persisting results", "state", StatePersisting, "questions", len(items))

	for _, it := range items {
		questionID, err := c.store.NextReportQuestionID(ctx)
		if err != nil {
			log.Error("failed to allocate question id", "category", it.category, "error", err)
			continue
		}
		question := domain.ReportQuestion{
			QuestionID:      strconv.FormatInt(questionID, 10),
			ReportID:        reportID,
			Category:        it.category,
			Question:        it.question,
			Answer:          it.answer,
			Considerations:  it.considerations,
			HumanEvaluation: domain.EvaluationPending,
			Score:           domain.ScoreMin,
		}
		if err := c.store.PutReportQuestion(ctx, question); err != nil {
			log.Error("failed to persist question result",
				"question_id", question.QuestionID, "error", err)
		}
	}
}
