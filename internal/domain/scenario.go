package domain

import (
	"fmt"
	"time"
)

// ScenarioStatus tracks the lifecycle of question synthesis for a scenario.
type ScenarioStatus string

const (
	// ScenarioProcessing indicates synthesis is still running. Every
	// scenario starts here.
	ScenarioProcessing ScenarioStatus = "PROCESSING"

	// ScenarioCompleted indicates the question set was generated and
	// persisted successfully.
	ScenarioCompleted ScenarioStatus = "COMPLETED"

	// ScenarioFailed indicates synthesis failed; ErrorMessage carries the
	// cause. Failed scenarios are never retried in place.
	ScenarioFailed ScenarioStatus = "FAILED"
)

// CanTransitionTo reports whether moving from s to next is a legal status
// transition. PROCESSING is the only non-terminal state.
func (s ScenarioStatus) CanTransitionTo(next ScenarioStatus) bool {
	return s == ScenarioProcessing &&
		(next == ScenarioCompleted || next == ScenarioFailed)
}

// Scenario is a named set of synthesized adversarial questions, grouped by
// pillar and reusable across evaluation runs.
type Scenario struct {
	ID                   string         `json:"scenario_id"`
	Name                 string         `json:"scenario_name" validate:"required"`
	Description          string         `json:"scenario_description" validate:"required"`
	QuestionsPerCategory int            `json:"questions_per_category" validate:"required,gt=0"`
	CreatedAt            time.Time      `json:"created_at"`
	Status               ScenarioStatus `json:"status"`
	ErrorMessage         string         `json:"error_message,omitempty"`
}

// Validate checks the scenario's caller-supplied fields.
func (s *Scenario) Validate() error { return validate.Struct(s) }

// ScenarioQuestion is one synthesized question belonging to a scenario.
// Rows are immutable once written, except for out-of-band edits to the
// category or text by the question-editing surface.
type ScenarioQuestion struct {
	QuestionID string    `json:"question_id"`
	ScenarioID string    `json:"scenario_id"`
	Category   string    `json:"category"`
	Text       string    `json:"question"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuestionSet is the parsed output of question synthesis: ordered question
// text per pillar name.
type QuestionSet map[string][]string

// Validate enforces the synthesis contract: every one of the eight pillars
// must be present with exactly perCategory non-empty questions. Anything
// else is treated as malformed model output and fails the scenario.
func (qs QuestionSet) Validate(perCategory int) error {
	if len(qs) != len(Pillars) {
		return fmt.Errorf("%w: got %d categories, want %d", ErrMalformedQuestionSet, len(qs), len(Pillars))
	}
	for _, p := range Pillars {
		questions, ok := qs[p.String()]
		if !ok {
			return fmt.Errorf("%w: missing pillar %q", ErrMalformedQuestionSet, p)
		}
		if len(questions) != perCategory {
			return fmt.Errorf("%w: pillar %q has %d questions, want %d",
				ErrMalformedQuestionSet, p, len(questions), perCategory)
		}
		for i, q := range questions {
			if q == "" {
				return fmt.Errorf("%w: pillar %q question %d is empty", ErrMalformedQuestionSet, p, i)
			}
		}
	}
	return nil
}
