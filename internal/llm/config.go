package llm

import (
	"net/http"
	"time"
)

// Default invocation parameters. MaxTokens and TopK are fixed by the
// provider contract; callers only vary temperature, top_p, and model.
const (
	DefaultMaxTokens = 4000
	DefaultTopK      = 250
)

// DefaultModel is the model used when a request does not name one.
const DefaultModel = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

// DefaultHTTPTimeout bounds a single provider call. It is deliberately
// generous: question synthesis can emit large completions. Cumulative
// retry latency is unbounded (throttling retries never give up).
const DefaultHTTPTimeout = 900 * time.Second

// RetryConfig controls the retry middleware.
type RetryConfig struct {
	// MaxAttempts is the bounded budget for non-throttle failures.
	MaxAttempts int

	// ThrottleDelayMin/Max bound the uniform random sleep before
	// retrying a throttled call. Throttle retries never consume the
	// attempt budget.
	ThrottleDelayMin time.Duration
	ThrottleDelayMax time.Duration
}

// Config holds model client configuration.
type Config struct {
	// Endpoint is the provider base URL, e.g.
	// https://bedrock-runtime.us-east-1.amazonaws.com.
	Endpoint string

	// APIKey is sent as x-api-key when non-empty.
	APIKey string

	// Model is the default model identifier.
	Model string

	// HTTPTimeout applies to both connect and read for a single call.
	HTTPTimeout time.Duration

	// HTTPClient overrides the constructed client when set (tests).
	HTTPClient *http.Client

	Retry RetryConfig
}

// DefaultConfig returns production defaults: the 900s per-call timeout,
// a 3-attempt budget for generic failures, and the 10-30s throttle jitter
// window.
func DefaultConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		HTTPTimeout: DefaultHTTPTimeout,
		Retry: RetryConfig{
			MaxAttempts:      3,
			ThrottleDelayMin: 10 * time.Second,
			ThrottleDelayMax: 30 * time.Second,
		},
	}
}

func (c *Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}
