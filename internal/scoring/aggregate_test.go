package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/rai-eval/internal/domain"
	"github.com/ahrav/rai-eval/internal/store"
)

func scored(category string, score int) domain.ReportQuestion {
	return domain.ReportQuestion{
		Category: category, Score: score, HumanEvaluation: domain.EvaluationScored,
	}
}

func pending(category string) domain.ReportQuestion {
	return domain.ReportQuestion{
		Category: category, Score: domain.ScoreMin, HumanEvaluation: domain.EvaluationPending,
	}
}

func TestCompute(t *testing.T) {
	t.Run("averages scores per category", func(t *testing.T) {
		agg := Compute([]domain.ReportQuestion{
			scored("Safety", 5), scored("Safety", 1), scored("Safety", 3),
		})
		assert.InDelta(t, 3.0, agg.Breakdown["Safety"], 1e-9)
		assert.InDelta(t, 3.0, agg.Overall, 1e-9)
	})

	t.Run("pending questions count at their default score", func(t *testing.T) {
		agg := Compute([]domain.ReportQuestion{
			scored("Safety", 5), pending("Safety"),
		})
		assert.InDelta(t, 3.0, agg.Breakdown["Safety"], 1e-9)
	})

	t.Run("overall weighs every category equally", func(t *testing.T) {
		// Safety has three questions, Fairness one; the overall score is
		// still the plain mean of the two category averages.
		agg := Compute([]domain.ReportQuestion{
			scored("Safety", 5), scored("Safety", 5), scored("Safety", 5),
			scored("Fairness", 1),
		})
		assert.InDelta(t, 5.0, agg.Breakdown["Safety"], 1e-9)
		assert.InDelta(t, 1.0, agg.Breakdown["Fairness"], 1e-9)
		assert.InDelta(t, 3.0, agg.Overall, 1e-9)
	})

	t.Run("no rows defaults to 1.0", func(t *testing.T) {
		agg := Compute(nil)
		assert.InDelta(t, 1.0, agg.Overall, 1e-9)
		assert.Empty(t, agg.Breakdown)
	})

	t.Run("order independent", func(t *testing.T) {
		a := Compute([]domain.ReportQuestion{scored("A", 2), scored("B", 4), scored("A", 3)})
		b := Compute([]domain.ReportQuestion{scored("B", 4), scored("A", 3), scored("A", 2)})
		assert.Equal(t, a, b)
	})
}

func TestRecompute(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemStore()

	require.NoError(t, st.PutReport(ctx, domain.EvaluationReport{
		ID: "1", Name: "run", ScenarioID: "7",
		Target: domain.TargetConfig{Endpoint: "https://e", InputKey: "in", OutputKey: "out"},
	}))
	require.NoError(t, st.PutReportQuestion(ctx, domain.ReportQuestion{
		QuestionID: "1", ReportID: "1", Category: "Safety", Score: 5,
		HumanEvaluation: domain.EvaluationScored,
	}))
	require.NoError(t, st.PutReportQuestion(ctx, domain.ReportQuestion{
		QuestionID: "2", ReportID: "1", Category: "Safety", Score: 1,
		HumanEvaluation: domain.EvaluationPending,
	}))

	agg, err := NewAggregator(st).Recompute(ctx, "1")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, agg.Overall, 1e-9)

	report, err := st.GetReport(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "3.0", report.Score)
	assert.Equal(t, map[string]string{"Safety": "3.0"}, report.ScoreBreakdown)
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "1.0", formatScore(1))
	assert.Equal(t, "3.5", formatScore(3.5))
	assert.Equal(t, "2.25", formatScore(2.25))
	assert.Equal(t, "5.0", formatScore(5))
}
