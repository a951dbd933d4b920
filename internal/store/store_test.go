package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/rai-eval/internal/domain"
)

// runStoreSuite exercises the Store contract against a fresh implementation.
// Both the sqlite and in-memory stores must pass it.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("counters start at one and never repeat", func(t *testing.T) {
		st := newStore(t)

		first, err := st.NextScenarioID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), first)

		second, err := st.NextScenarioID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), second)

		// Counters are independent per entity.
		reportID, err := st.NextReportID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), reportID)
	})

	t.Run("concurrent allocation yields distinct ids", func(t *testing.T) {
		st := newStore(t)
		const n = 32

		ids := make(chan int64, n)
		var wg sync.WaitGroup
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id, err := st.NextReportQuestionID(ctx)
				assert.NoError(t, err)
				ids <- id
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[int64]bool, n)
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			assert.GreaterOrEqual(t, id, int64(1))
			assert.LessOrEqual(t, id, int64(n))
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})

	t.Run("scenario round-trip", func(t *testing.T) {
		st := newStore(t)
		sc := domain.Scenario{
			ID:                   "1",
			Name:                 "banking assistant",
			Description:          "customer-facing chat bot",
			QuestionsPerCategory: 2,
			CreatedAt:            time.Now().UTC().Truncate(time.Second),
			Status:               domain.ScenarioProcessing,
		}
		require.NoError(t, st.PutScenario(ctx, sc))

		got, err := st.GetScenario(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, sc, got)

		_, err = st.GetScenario(ctx, "999")
		assert.ErrorIs(t, err, domain.ErrScenarioNotFound)
	})

	t.Run("status transitions are one-way", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.PutScenario(ctx, domain.Scenario{
			ID: "1", Name: "n", Description: "d", QuestionsPerCategory: 1,
			Status: domain.ScenarioProcessing,
		}))

		require.NoError(t, st.UpdateScenarioStatus(ctx, "1", domain.ScenarioCompleted, ""))

		got, err := st.GetScenario(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, domain.ScenarioCompleted, got.Status)

		// Terminal states are never reversed.
		err = st.UpdateScenarioStatus(ctx, "1", domain.ScenarioFailed, "late failure")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		err = st.UpdateScenarioStatus(ctx, "999", domain.ScenarioFailed, "")
		assert.ErrorIs(t, err, domain.ErrScenarioNotFound)
	})

	t.Run("failed scenarios keep the error message", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.PutScenario(ctx, domain.Scenario{
			ID: "1", Name: "n", Description: "d", QuestionsPerCategory: 1,
			Status: domain.ScenarioProcessing,
		}))
		require.NoError(t, st.UpdateScenarioStatus(ctx, "1", domain.ScenarioFailed, "model output malformed"))

		got, err := st.GetScenario(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, domain.ScenarioFailed, got.Status)
		assert.Equal(t, "model output malformed", got.ErrorMessage)
	})

	t.Run("scenario questions list in allocation order", func(t *testing.T) {
		st := newStore(t)
		created := time.Now().UTC().Truncate(time.Second)
		for _, id := range []string{"2", "10", "1"} {
			require.NoError(t, st.PutScenarioQuestion(ctx, domain.ScenarioQuestion{
				QuestionID: id, ScenarioID: "7", Category: "Safety",
				Text: "q" + id, CreatedAt: created,
			}))
		}
		require.NoError(t, st.PutScenarioQuestion(ctx, domain.ScenarioQuestion{
			QuestionID: "3", ScenarioID: "8", Category: "Safety", Text: "other scenario", CreatedAt: created,
		}))

		questions, err := st.ListScenarioQuestions(ctx, "7")
		require.NoError(t, err)
		require.Len(t, questions, 3)
		// Numeric order, not lexicographic.
		assert.Equal(t, "1", questions[0].QuestionID)
		assert.Equal(t, "2", questions[1].QuestionID)
		assert.Equal(t, "10", questions[2].QuestionID)
	})

	t.Run("report round-trip preserves the target config", func(t *testing.T) {
		st := newStore(t)
		r := domain.EvaluationReport{
			ID:          "1",
			Name:        "nightly",
			Description: "nightly sweep",
			Target: domain.TargetConfig{
				Endpoint:     "https://app.example.com/chat",
				Headers:      map[string]string{"Authorization": "Bearer t"},
				BodyTemplate: map[string]any{"stream": false},
				InputKey:     "prompt",
				OutputKey:    "completion",
			},
			ScenarioID: "7",
			Snapshot: domain.ScenarioSnapshot{
				Name: "banking assistant", Description: "chat bot", QuestionsPerCategory: 2,
			},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, st.PutReport(ctx, r))

		got, err := st.GetReport(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, r.Target.Headers, got.Target.Headers)
		assert.Equal(t, r.Target.BodyTemplate, got.Target.BodyTemplate)
		assert.Equal(t, r.Snapshot, got.Snapshot)
		assert.Equal(t, r.ScenarioID, got.ScenarioID)

		_, err = st.GetReport(ctx, "999")
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("report scores update together", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.PutReport(ctx, domain.EvaluationReport{
			ID: "1", Name: "n",
			Target:     domain.TargetConfig{Endpoint: "https://e", InputKey: "in", OutputKey: "out"},
			ScenarioID: "7",
		}))

		breakdown := map[string]string{"Safety": "3.5", "Fairness": "1.0"}
		require.NoError(t, st.UpdateReportScores(ctx, "1", "2.25", breakdown))

		got, err := st.GetReport(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "2.25", got.Score)
		assert.Equal(t, breakdown, got.ScoreBreakdown)

		err = st.UpdateReportScores(ctx, "999", "1.0", nil)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("report question evaluation and comments", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.PutReportQuestion(ctx, domain.ReportQuestion{
			QuestionID: "1", ReportID: "9", Category: "Safety",
			Question: "q", Answer: "a", Considerations: "c",
			HumanEvaluation: domain.EvaluationPending, Score: domain.ScoreMin,
		}))

		require.NoError(t, st.UpdateQuestionEvaluation(ctx, "9", "1", 4, domain.EvaluationScored))
		require.NoError(t, st.UpdateQuestionComments(ctx, "9", "1", "handled the refusal well"))

		questions, err := st.ListReportQuestions(ctx, "9")
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, 4, questions[0].Score)
		assert.Equal(t, domain.EvaluationScored, questions[0].HumanEvaluation)
		assert.Equal(t, "handled the refusal well", questions[0].Comments)

		assert.ErrorIs(t, st.UpdateQuestionEvaluation(ctx, "9", "404", 3, domain.EvaluationScored), domain.ErrQuestionNotFound)
		assert.ErrorIs(t, st.UpdateQuestionComments(ctx, "404", "1", "x"), domain.ErrQuestionNotFound)
	})
}
