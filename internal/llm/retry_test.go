package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/rai-eval/internal/llm/llmerrors"
)

// testRetryConfig keeps throttle backoff in the millisecond range so
// throttling scenarios run fast.
func testRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:      3,
		ThrottleDelayMin: time.Millisecond,
		ThrottleDelayMax: 2 * time.Millisecond,
	}
}

func throttleErr() error {
	return &llmerrors.ProviderError{Provider: "test", Type: llmerrors.ErrorTypeThrottled, Message: "throttled"}
}

func TestRetryMiddleware(t *testing.T) {
	req := &Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}, Model: "m"}

	t.Run("passes through success", func(t *testing.T) {
		handler := Chain(HandlerFunc(func(context.Context, *Request) (*Response, error) {
			return &Response{Content: "ok"}, nil
		}), NewRetryMiddleware(testRetryConfig()))

		resp, err := handler.Handle(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Content)
	})

	t.Run("throttling retries without consuming the budget", func(t *testing.T) {
		var calls atomic.Int32
		// 6 throttle rejections would exhaust a 3-attempt budget twice
		// over if throttling decremented it.
		handler := Chain(HandlerFunc(func(context.Context, *Request) (*Response, error) {
			if calls.Add(1) <= 6 {
				return nil, throttleErr()
			}
			return &Response{Content: "eventually"}, nil
		}), NewRetryMiddleware(testRetryConfig()))

		resp, err := handler.Handle(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "eventually", resp.Content)
		assert.Equal(t, int32(7), calls.Load())
	})

	t.Run("generic errors exhaust the bounded budget", func(t *testing.T) {
		var calls atomic.Int32
		cause := errors.New("connection reset")
		handler := Chain(HandlerFunc(func(context.Context, *Request) (*Response, error) {
			calls.Add(1)
			return nil, cause
		}), NewRetryMiddleware(testRetryConfig()))

		_, err := handler.Handle(context.Background(), req)
		require.Error(t, err)
		assert.ErrorIs(t, err, llmerrors.ErrRetryBudgetExhausted)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("throttling then generic failures share one budget", func(t *testing.T) {
		var calls atomic.Int32
		handler := Chain(HandlerFunc(func(context.Context, *Request) (*Response, error) {
			n := calls.Add(1)
			if n <= 2 {
				return nil, throttleErr()
			}
			return nil, errors.New("hard failure")
		}), NewRetryMiddleware(testRetryConfig()))

		_, err := handler.Handle(context.Background(), req)
		assert.ErrorIs(t, err, llmerrors.ErrRetryBudgetExhausted)
		// 2 throttles (free) + 3 budgeted attempts.
		assert.Equal(t, int32(5), calls.Load())
	})

	t.Run("validation errors are terminal", func(t *testing.T) {
		var calls atomic.Int32
		handler := Chain(HandlerFunc(func(context.Context, *Request) (*Response, error) {
			calls.Add(1)
			return nil, &llmerrors.ProviderError{Provider: "test", Type: llmerrors.ErrorTypeValidation, Message: "bad request"}
		}), NewRetryMiddleware(testRetryConfig()))

		_, err := handler.Handle(context.Background(), req)
		require.Error(t, err)
		assert.NotErrorIs(t, err, llmerrors.ErrRetryBudgetExhausted)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("context cancellation aborts throttle backoff", func(t *testing.T) {
		cfg := testRetryConfig()
		cfg.ThrottleDelayMin = time.Hour
		cfg.ThrottleDelayMax = 2 * time.Hour

		handler := Chain(HandlerFunc(func(context.Context, *Request) (*Response, error) {
			return nil, throttleErr()
		}), NewRetryMiddleware(cfg))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			_, err := handler.Handle(ctx, req)
			done <- err
		}()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.DeadlineExceeded)
		case <-time.After(5 * time.Second):
			t.Fatal("retry loop did not honor context cancellation")
		}
	})
}

func TestThrottleDelayBounds(t *testing.T) {
	rm := &retryMiddleware{config: RetryConfig{
		ThrottleDelayMin: 10 * time.Millisecond,
		ThrottleDelayMax: 30 * time.Millisecond,
	}}
	for range 100 {
		d := rm.throttleDelay()
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.Less(t, d, 30*time.Millisecond)
	}
}
