package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/ahrav/rai-eval/internal/llm/llmerrors"
)

// retryDecision is the outcome of classifying one failed attempt: retry
// after delay, or stop with err. An explicit decision type keeps the loop
// iterative; the alternative of recursing on throttling grows the stack
// without bound under sustained backpressure.
type retryDecision struct {
	retry bool
	delay time.Duration
	err   error
}

// retryMiddleware implements the pipeline's dual retry policy: throttling
// retries forever with a uniform random delay and no budget decrement,
// every other error consumes one attempt from the bounded budget.
type retryMiddleware struct {
	config RetryConfig
	logger *slog.Logger
}

// NewRetryMiddleware returns retry middleware for the given config.
// A non-positive MaxAttempts falls back to a single attempt.
func NewRetryMiddleware(cfg RetryConfig) Middleware {
	rm := &retryMiddleware{
		config: cfg,
		logger: slog.Default().With("component", "llm-retry"),
	}
	return rm.middleware()
}

func (r *retryMiddleware) middleware() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req *Request) (*Response, error) {
			budget := r.config.MaxAttempts
			if budget <= 0 {
				budget = 1
			}

			var lastErr error
			for {
				select {
				case <-ctx.Done():
					return nil, fmt.Errorf("context cancelled before attempt: %w", ctx.Err())
				default:
				}

				resp, err := next.Handle(ctx, req)
				if err == nil {
					return resp, nil
				}
				lastErr = err

				decision := r.decide(err, &budget)
				if !decision.retry {
					return nil, decision.err
				}

				if decision.delay > 0 {
					r.logger.Warn("model call throttled, backing off",
						"delay", decision.delay,
						"model", req.Model)
					select {
					case <-time.After(decision.delay):
					case <-ctx.Done():
						return nil, fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
					}
				} else {
					r.logger.Warn("model call failed, retrying",
						"remaining_attempts", budget,
						"error", lastErr)
				}
			}
		})
	}
}

// decide classifies a failure and updates the bounded budget. Throttling
// never decrements; generic retryable failures retry immediately until the
// budget runs out, at which point the exhaustion sentinel wraps the cause.
func (r *retryMiddleware) decide(err error, budget *int) retryDecision {
	if llmerrors.IsThrottled(err) {
		return retryDecision{retry: true, delay: r.throttleDelay()}
	}

	if llmerrors.IsRetryable(err) {
		*budget--
		if *budget > 0 {
			return retryDecision{retry: true}
		}
		return retryDecision{err: fmt.Errorf("%w: %w", llmerrors.ErrRetryBudgetExhausted, err)}
	}

	// Validation failures are terminal regardless of remaining budget.
	return retryDecision{err: err}
}

// throttleDelay draws a uniform random duration from the configured
// jitter window.
func (r *retryMiddleware) throttleDelay() time.Duration {
	minDelay, maxDelay := r.config.ThrottleDelayMin, r.config.ThrottleDelayMax
	if maxDelay <= minDelay {
		return minDelay
	}
	return minDelay + rand.N(maxDelay-minDelay) // #nosec G404 -- non-cryptographic jitter
}
