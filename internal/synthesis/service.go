package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ahrav/rai-eval/internal/domain"
	"github.com/ahrav/rai-eval/internal/store"
)

// Service ties the synthesizer to persistence: it creates scenario rows,
// runs generation, stores the questions, and transitions scenario status.
type Service struct {
	store       store.Store
	synthesizer *Synthesizer
	logger      *slog.Logger
	now         func() time.Time
}

// NewService constructs the scenario synthesis service.
func NewService(st store.Store, synthesizer *Synthesizer) *Service {
	return &Service{
		store:       st,
		synthesizer: synthesizer,
		logger:      slog.Default().With("component", "synthesis"),
		now:         time.Now,
	}
}

// CreateScenario allocates a scenario id and persists the row in
// PROCESSING state. It returns immediately; Process does the synthesis
// out-of-band and callers observe progress by polling status.
func (s *Service) CreateScenario(ctx context.Context, name, description string, perCategory int) (string, error) {
	scenario := domain.Scenario{
		Name:                 name,
		Description:          description,
		QuestionsPerCategory: perCategory,
		CreatedAt:            s.now(),
		Status:               domain.ScenarioProcessing,
	}
	if err := scenario.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.NextScenarioID(ctx)
	if err != nil {
		return "", fmt.Errorf("allocating scenario id: %w", err)
	}
	scenario.ID = strconv.FormatInt(id, 10)

	if err := s.store.PutScenario(ctx, scenario); err != nil {
		return "", fmt.Errorf("persisting scenario: %w", err)
	}
	return scenario.ID, nil
}

// Process synthesizes and persists the question set for a previously
// created scenario, then transitions it to COMPLETED, or to FAILED with
// the error message on any failure. The returned error mirrors the FAILED
// transition so the job launcher can log it; it is never retried here.
func (s *Service) Process(ctx context.Context, scenarioID string) error {
	scenario, err := s.store.GetScenario(ctx, scenarioID)
	if err != nil {
		return fmt.Errorf("loading scenario %s: %w", scenarioID, err)
	}

	set, err := s.synthesizer.Generate(ctx, scenario.Name, scenario.Description, scenario.QuestionsPerCategory)
	if err != nil {
		s.fail(ctx, scenarioID, err)
		return err
	}

	createdAt := s.now()
	for category, questions := range set {
		for _, text := range questions {
			questionID, err := s.store.NextScenarioQuestionID(ctx)
			if err != nil {
				s.fail(ctx, scenarioID, err)
				return fmt.Errorf("allocating question id: %w", err)
			}
			question := domain.ScenarioQuestion{
				QuestionID: strconv.FormatInt(questionID, 10),
				ScenarioID: scenarioID,
				Category:   category,
				Text:       text,
				CreatedAt:  createdAt,
			}
			if err := s.store.PutScenarioQuestion(ctx, question); err != nil {
				s.fail(ctx, scenarioID, err)
				return fmt.Errorf("persisting question: %w", err)
			}
		}
	}

	if err := s.store.UpdateScenarioStatus(ctx, scenarioID, domain.ScenarioCompleted, ""); err != nil {
		return fmt.Errorf("completing scenario %s: %w", scenarioID, err)
	}
	s.logger.Info("scenario synthesized",
		"scenario_id", scenarioID,
		"questions_per_category", scenario.QuestionsPerCategory)
	return nil
}

// fail transitions the scenario to FAILED, best-effort.
func (s *Service) fail(ctx context.Context, scenarioID string, cause error) {
	s.logger.Error("scenario synthesis failed", "scenario_id", scenarioID, "error", cause)
	if err := s.store.UpdateScenarioStatus(ctx, scenarioID, domain.ScenarioFailed, cause.Error()); err != nil {
		s.logger.Error("failed to record scenario failure", "scenario_id", scenarioID, "error", err)
	}
}
