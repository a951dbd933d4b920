package store

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/ahrav/rai-eval/internal/domain"
)

// byQuestionNumber orders allocated ids numerically, matching the
// CAST-based ordering of the sqlite store.
func byQuestionNumber(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA != nil || errB != nil {
		return a < b
	}
	return na < nb
}

// MemStore is an in-memory Store for tests and local development. All
// methods are safe for concurrent use; counter allocation is linearizable
// under the single mutex.
type MemStore struct {
	mu sync.Mutex

	counters          map[string]int64
	scenarios         map[string]domain.Scenario
	scenarioQuestions map[string][]domain.ScenarioQuestion
	reports           map[string]domain.EvaluationReport
	reportQuestions   map[string][]domain.ReportQuestion
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		counters:          make(map[string]int64),
		scenarios:         make(map[string]domain.Scenario),
		scenarioQuestions: make(map[string][]domain.ScenarioQuestion),
		reports:           make(map[string]domain.EvaluationReport),
		reportQuestions:   make(map[string][]domain.ReportQuestion),
	}
}

func (m *MemStore) next(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
	return m.counters[name]
}

func (m *MemStore) NextScenarioID(context.Context) (int64, error) {
	return m.next(counterScenarios), nil
}

func (m *MemStore) NextScenarioQuestionID(context.Context) (int64, error) {
	return m.next(counterScenarioQuestions), nil
}

func (m *MemStore) NextReportID(context.Context) (int64, error) {
	return m.next(counterReports), nil
}

func (m *MemStore) NextReportQuestionID(context.Context) (int64, error) {
	return m.next(counterReportQuestions), nil
}

func (m *MemStore) PutScenario(_ context.Context, s domain.Scenario) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[s.ID] = s
	return nil
}

func (m *MemStore) GetScenario(_ context.Context, id string) (domain.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scenarios[id]
	if !ok {
		return domain.Scenario{}, domain.ErrScenarioNotFound
	}
	return s, nil
}

func (m *MemStore) UpdateScenarioStatus(_ context.Context, id string, status domain.ScenarioStatus, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scenarios[id]
	if !ok {
		return domain.ErrScenarioNotFound
	}
	if !s.Status.CanTransitionTo(status) {
		return domain.ErrInvalidTransition
	}
	s.Status = status
	s.ErrorMessage = errorMessage
	m.scenarios[id] = s
	return nil
}

func (m *MemStore) PutScenarioQuestion(_ context.Context, q domain.ScenarioQuestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarioQuestions[q.ScenarioID] = append(m.scenarioQuestions[q.ScenarioID], q)
	return nil
}

func (m *MemStore) ListScenarioQuestions(_ context.Context, scenarioID string) ([]domain.ScenarioQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	questions := make([]domain.ScenarioQuestion, len(m.scenarioQuestions[scenarioID]))
	copy(questions, m.scenarioQuestions[scenarioID])
	sort.Slice(questions, func(i, j int) bool {
		return byQuestionNumber(questions[i].QuestionID, questions[j].QuestionID)
	})
	return questions, nil
}

func (m *MemStore) PutReport(_ context.Context, r domain.EvaluationReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = r
	return nil
}

func (m *MemStore) GetReport(_ context.Context, id string) (domain.EvaluationReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return domain.EvaluationReport{}, domain.ErrReportNotFound
	}
	return r, nil
}

func (m *MemStore) UpdateReportScores(_ context.Context, id, score string, breakdown map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return domain.ErrReportNotFound
	}
	r.Score = score
	r.ScoreBreakdown = make(map[string]string, len(breakdown))
	for k, v := range breakdown {
		r.ScoreBreakdown[k] = v
	}
	m.reports[id] = r
	return nil
}

func (m *MemStore) PutReportQuestion(_ context.Context, q domain.ReportQuestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportQuestions[q.ReportID] = append(m.reportQuestions[q.ReportID], q)
	return nil
}

func (m *MemStore) ListReportQuestions(_ context.Context, reportID string) ([]domain.ReportQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	questions := make([]domain.ReportQuestion, len(m.reportQuestions[reportID]))
	copy(questions, m.reportQuestions[reportID])
	sort.Slice(questions, func(i, j int) bool {
		return byQuestionNumber(questions[i].QuestionID, questions[j].QuestionID)
	})
	return questions, nil
}

func (m *MemStore) UpdateQuestionEvaluation(_ context.Context, reportID, questionID string, score int, eval domain.HumanEvaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	questions := m.reportQuestions[reportID]
	for i := range questions {
		if questions[i].QuestionID == questionID {
			questions[i].Score = score
			questions[i].HumanEvaluation = eval
			return nil
		}
	}
	return domain.ErrQuestionNotFound
}

func (m *MemStore) UpdateQuestionComments(_ context.Context, reportID, questionID, comments string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	questions := m.reportQuestions[reportID]
	for i := range questions {
		if questions[i].QuestionID == questionID {
			questions[i].Comments = comments
			return nil
		}
	}
	return domain.ErrQuestionNotFound
}
