// Package llm provides a resilient HTTP client for the model provider used
// by question synthesis and response review.
//
// Architecture follows a middleware chain over a terminal provider
// handler: the retry layer absorbs throttling with unbounded jittered
// backoff and enforces the bounded budget for other failures, while the
// provider handler owns request construction and response parsing.
package llm

import (
	"context"
	"errors"
)

// RoleUser is the message role for caller-supplied prompt turns.
const RoleUser = "user"

// ErrEmptyPrompt indicates an invocation with neither a prompt string nor
// pre-built messages.
var ErrEmptyPrompt = errors.New("invoke requires a prompt or messages")

// InvokeRequest describes one model invocation. Exactly one of Prompt or
// Messages should be set; a bare Prompt is normalized to a single user
// turn. Model falls back to the client's configured default when empty.
type InvokeRequest struct {
	Prompt      string
	Messages    []Message
	Temperature float64
	TopP        float64
	Model       string
}

// Client invokes the model provider. Invocations are referentially
// transparent given identical inputs, up to model nondeterminism at
// temperature > 0.
type Client interface {
	Invoke(ctx context.Context, req InvokeRequest) (string, error)
}

type client struct {
	handler      Handler
	defaultModel string
}

// NewClient constructs the production client: retry middleware wrapped
// around the provider transport.
func NewClient(cfg *Config) Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	handler := Chain(NewProviderHandler(cfg), NewRetryMiddleware(cfg.Retry))
	return NewClientWithHandler(handler, cfg.Model)
}

// NewClientWithHandler builds a client over an explicit handler chain.
// Used by tests to substitute fake transports without process-wide state.
func NewClientWithHandler(handler Handler, defaultModel string) Client {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	return &client{handler: handler, defaultModel: defaultModel}
}

func (c *client) Invoke(ctx context.Context, req InvokeRequest) (string, error) {
	messages := req.Messages
	if len(messages) == 0 {
		if req.Prompt == "" {
			return "", ErrEmptyPrompt
		}
		messages = []Message{{Role: RoleUser, Content: req.Prompt}}
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	resp, err := c.handler.Handle(ctx, &Request{
		Messages:    messages,
		Model:       model,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		TopK:        DefaultTopK,
		MaxTokens:   DefaultMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
