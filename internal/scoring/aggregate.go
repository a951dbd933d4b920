// Package scoring recomputes report scores from persisted question rows.
//
// Recompute is the contract the human-review surface calls after every
// scoring mutation. Scores are averaged over all rows in a category,
// PENDING ones included: unevaluated questions keep their default score of
// 1 and intentionally pull the average down until a human scores them.
package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ahrav/rai-eval/internal/domain"
	"github.com/ahrav/rai-eval/internal/store"
)

// Aggregate holds a recomputed overall score and per-category breakdown.
type Aggregate struct {
	Overall   float64
	Breakdown map[string]float64
}

// Aggregator recomputes and persists report scores.
type Aggregator struct {
	store  store.Store
	logger *slog.Logger
}

// NewAggregator returns an Aggregator over the given store.
func NewAggregator(st store.Store) *Aggregator {
	return &Aggregator{
		store:  st,
		logger: slog.Default().With("component", "scoring"),
	}
}

// Compute derives the aggregate from a set of report questions. Each
// category's score is the mean of its question scores; the overall score
// is the unweighted mean of category scores, so every pillar counts
// equally regardless of question count. No rows at all defaults the
// overall score to 1.0.
func Compute(questions []domain.ReportQuestion) Aggregate {
	byCategory := make(map[string][]int)
	for _, q := range questions {
		byCategory[q.Category] = append(byCategory[q.Category], q.Score)
	}

	breakdown := make(map[string]float64, len(byCategory))
	var sum float64
	for category, scores := range byCategory {
		total := 0
		for _, s := range scores {
			total += s
		}
		avg := float64(total) / float64(len(scores))
		breakdown[category] = avg
		sum += avg
	}

	overall := 1.0
	if len(breakdown) > 0 {
		overall = sum / float64(len(breakdown))
	}
	return Aggregate{Overall: overall, Breakdown: breakdown}
}

// Recompute loads all question rows for the report, computes the
// aggregate, and persists both the stringified breakdown and overall score
// in one update. Last writer wins: there is no optimistic-concurrency
// check, which is acceptable while scoring mutations for one report are
// serial (the intended usage).
func (a *Aggregator) Recompute(ctx context.Context, reportID string) (Aggregate, error) {
	questions, err := a.store.ListReportQuestions(ctx, reportID)
	if err != nil {
		return Aggregate{}, fmt.Errorf("loading report questions: %w", err)
	}

	agg := Compute(questions)

	breakdown := make(map[string]string, len(agg.Breakdown))
	for category, score := range agg.Breakdown {
		breakdown[category] = formatScore(score)
	}
	if err := a.store.UpdateReportScores(ctx, reportID, formatScore(agg.Overall), breakdown); err != nil {
		return Aggregate{}, fmt.Errorf("persisting scores: %w", err)
	}

	a.logger.Info("report scores recomputed",
		"report_id", reportID,
		"overall", agg.Overall,
		"categories", len(agg.Breakdown))
	return agg, nil
}

// formatScore renders a score the way the report stores it: minimal
// decimal representation with at least one fractional digit ("1.0", "3.5").
func formatScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
