// Package probe issues one HTTP call per question against the application
// under evaluation.
//
// The prober never returns an error: an unreachable or misbehaving target
// must not abort the whole evaluation run, so every transport or parse
// failure is captured as the answer text instead.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ahrav/rai-eval/internal/domain"
)

// DefaultTimeout bounds a single probe call. The target contract requires
// a JSON response within this window.
const DefaultTimeout = 10 * time.Second

// errAnswerPrefix prefixes captured failures in the answer text.
const errAnswerPrefix = "Error calling endpoint: "

// Result is one probed question/answer pair. Answer is always a non-empty
// string, possibly a captured failure description.
type Result struct {
	Question string
	Answer   string
}

// Prober calls the target endpoint.
type Prober struct {
	httpClient *http.Client
}

// NewProber returns a prober with the default per-call timeout.
func NewProber() *Prober {
	return &Prober{httpClient: &http.Client{Timeout: DefaultTimeout}}
}

// NewProberWithClient overrides the HTTP client (tests).
func NewProberWithClient(c *http.Client) *Prober {
	return &Prober{httpClient: c}
}

// Probe POSTs the question to the target and extracts the answer from the
// configured output key. When the target defines a body template, the
// question is injected into a copy of it; otherwise the body is just
// {InputKey: question}.
func (p *Prober) Probe(ctx context.Context, target domain.TargetConfig, question string) Result {
	body := map[string]any{target.InputKey: question}
	if len(target.BodyTemplate) > 0 {
		body = make(map[string]any, len(target.BodyTemplate)+1)
		for k, v := range target.BodyTemplate {
			body[k] = v
		}
		body[target.InputKey] = question
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Result{Question: question, Answer: errAnswerPrefix + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{Question: question, Answer: errAnswerPrefix + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range target.Headers {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Result{Question: question, Answer: errAnswerPrefix + err.Error()}
	}
	defer resp.Body.Close()

	var responseBody map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&responseBody); err != nil {
		return Result{Question: question, Answer: errAnswerPrefix + err.Error()}
	}

	answer, ok := responseBody[target.OutputKey].(string)
	if !ok {
		return Result{Question: question, Answer: "No response available in key: " + target.OutputKey}
	}
	return Result{Question: question, Answer: answer}
}
