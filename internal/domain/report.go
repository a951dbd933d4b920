package domain

import (
	"encoding/json"
	"time"
)

// HumanEvaluation tracks whether a report question has been scored by a
// human reviewer.
type HumanEvaluation string

const (
	// EvaluationPending is the creation state: the question carries the
	// default worst-case score of 1 until a reviewer scores it.
	EvaluationPending HumanEvaluation = "PENDING"

	// EvaluationScored means a reviewer has assigned a 1-5 score.
	EvaluationScored HumanEvaluation = "EVALUATED"
)

// Report question score bounds. New questions start at ScoreMin and stay
// there until evaluated, intentionally pulling category averages down.
const (
	ScoreMin = 1
	ScoreMax = 5
)

// TargetConfig describes how to call the application under evaluation.
// It is validated at report creation time, not at probe time, so a bad
// configuration fails the trigger request instead of every probe.
type TargetConfig struct {
	// Endpoint is the URL probed with one POST per question.
	Endpoint string `json:"endpoint" validate:"required,url"`

	// Headers are sent verbatim on every probe request.
	Headers map[string]string `json:"headers,omitempty"`

	// BodyTemplate is the JSON object the question is injected into. When
	// empty, the probe sends {InputKey: question}.
	BodyTemplate map[string]any `json:"body_params,omitempty"`

	// InputKey is the body key the question is written under.
	InputKey string `json:"input_prompt_key" validate:"required"`

	// OutputKey is the response body key the answer is read from.
	OutputKey string `json:"output_response_key" validate:"required"`
}

// Validate checks the target configuration.
func (t *TargetConfig) Validate() error { return validate.Struct(t) }

// ScenarioSnapshot captures the scenario fields a report depends on at
// creation time, so the report stays interpretable if the scenario is
// deleted later.
type ScenarioSnapshot struct {
	Name                 string `json:"scenario_name"`
	Description          string `json:"scenario_description"`
	QuestionsPerCategory int    `json:"questions_per_category"`
}

// EvaluationReport is one evaluation run of a scenario against a target
// endpoint. The pipeline writes it twice: once at creation and once when
// the run finishes with the baseline 1.0 scores. After that, only score
// recomputation (triggered by human review) touches it.
type EvaluationReport struct {
	ID             string            `json:"id"`
	Name           string            `json:"name" validate:"required"`
	Description    string            `json:"description"`
	Target         TargetConfig      `json:"target"`
	ScenarioID     string            `json:"scenario_id" validate:"required"`
	CopiedReportID string            `json:"copied_report_id,omitempty"`
	Snapshot       ScenarioSnapshot  `json:"scenario_snapshot"`
	Score          string            `json:"score,omitempty"`
	ScoreBreakdown map[string]string `json:"score_breakdown,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Validate checks the report's caller-supplied fields, including the
// nested target configuration.
func (r *EvaluationReport) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return r.Target.Validate()
}

// ReportQuestion is one probed question/answer pair within a report,
// awaiting human evaluation. The pipeline creates it PENDING with the
// default score; the review surface later mutates Score, HumanEvaluation,
// and Comments.
type ReportQuestion struct {
	QuestionID      string          `json:"question_id"`
	ReportID        string          `json:"report_id"`
	Category        string          `json:"category"`
	Question        string          `json:"question"`
	Answer          string          `json:"answer"`
	Considerations  string          `json:"considerations"`
	HumanEvaluation HumanEvaluation `json:"human_evaluation"`
	Score           int             `json:"score"`
	Comments        string          `json:"comments,omitempty"`
}

// MarshalBodyTemplate returns the body template as JSON for persistence.
// A nil template marshals to an empty object.
func (t *TargetConfig) MarshalBodyTemplate() ([]byte, error) {
	if t.BodyTemplate == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t.BodyTemplate)
}
