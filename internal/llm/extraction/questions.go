package extraction

import (
	"encoding/json"
	"fmt"

	"github.com/ahrav/rai-eval/internal/domain"
)

// questionEntry matches the per-question object in the synthesis output
// contract: {"<pillar>": [{"question": "..."}, ...], ...}.
type questionEntry struct {
	Question string `json:"question"`
}

// ParseQuestionSet extracts the <tag> payload from raw model output and
// strictly decodes it into a QuestionSet. Any shape violation wraps
// domain.ErrMalformedQuestionSet so callers can fail the scenario instead
// of retrying.
func ParseQuestionSet(raw, tag string) (domain.QuestionSet, error) {
	payload := Extract(raw, tag)
	if payload == "" {
		return nil, fmt.Errorf("%w: no <%s> payload in model output", domain.ErrMalformedQuestionSet, tag)
	}

	var parsed map[string][]questionEntry
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedQuestionSet, err)
	}

	set := make(domain.QuestionSet, len(parsed))
	for category, entries := range parsed {
		questions := make([]string, 0, len(entries))
		for _, e := range entries {
			questions = append(questions, e.Question)
		}
		set[category] = questions
	}
	return set, nil
}
