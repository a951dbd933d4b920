// Package synthesis generates adversarial test questions for a scenario
// and owns the scenario's PROCESSING → COMPLETED/FAILED lifecycle.
package synthesis

import (
	"context"
	"fmt"

	"github.com/ahrav/rai-eval/internal/domain"
	"github.com/ahrav/rai-eval/internal/llm"
	"github.com/ahrav/rai-eval/internal/llm/extraction"
)

// Synthesis invokes at high diversity on purpose: each run should produce
// a fresh adversarial question set, not a canonical one.
const (
	synthesisTemperature = 1
	synthesisTopP        = 0.999
	questionsTag         = "questions"
)

// Synthesizer produces a pillar-grouped question set for an application.
type Synthesizer struct {
	client llm.Client
}

// NewSynthesizer returns a Synthesizer over the given model client.
func NewSynthesizer(client llm.Client) *Synthesizer {
	return &Synthesizer{client: client}
}

// Generate builds the synthesis prompt, invokes the model, and parses the
// tagged JSON payload. The result is validated against the contract: all
// eight pillars, exactly perCategory questions each. Parse and shape
// failures wrap domain.ErrMalformedQuestionSet and must fail the scenario
// rather than be retried.
func (s *Synthesizer) Generate(ctx context.Context, name, description string, perCategory int) (domain.QuestionSet, error) {
	raw, err := s.client.Invoke(ctx, llm.InvokeRequest{
		Prompt:      buildPrompt(name, description, perCategory),
		Temperature: synthesisTemperature,
		TopP:        synthesisTopP,
	})
	if err != nil {
		return nil, fmt.Errorf("question synthesis: %w", err)
	}

	set, err := extraction.ParseQuestionSet(raw, questionsTag)
	if err != nil {
		return nil, err
	}
	if err := set.Validate(perCategory); err != nil {
		return nil, err
	}
	return set, nil
}
