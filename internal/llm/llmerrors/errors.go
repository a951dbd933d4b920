// Package llmerrors defines the typed errors surfaced by the model client
// and the classification helpers the retry layer relies on.
//
// The taxonomy mirrors the pipeline's propagation policy: throttling is
// retried forever and never surfaced, other provider failures consume the
// bounded retry budget and surface as ErrRetryBudgetExhausted, and
// validation failures are never retried.
package llmerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType categorizes a provider failure for retry decisions.
type ErrorType string

const (
	// ErrorTypeThrottled is a rate-limit rejection from the model
	// provider. Retried with jitter and no budget decrement.
	ErrorTypeThrottled ErrorType = "throttled"

	// ErrorTypeProvider is any other provider-side failure. Retried
	// against the bounded budget.
	ErrorTypeProvider ErrorType = "provider"

	// ErrorTypeValidation is a malformed request or response that no
	// retry can fix.
	ErrorTypeValidation ErrorType = "validation"
)

// ErrRetryBudgetExhausted is the ModelError of the pipeline: a non-throttle
// provider failure that persisted through the bounded retry budget.
var ErrRetryBudgetExhausted = errors.New("model invocation failed after retries")

// ProviderError carries structured details of a model provider failure.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Code       string
	Type       ErrorType
}

// Error implements the error interface with provider context.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// IsThrottled reports whether err is a throttling rejection. Typed errors
// are checked first; untyped errors fall back to the case-insensitive
// message patterns providers are known to emit.
func IsThrottled(err error) bool {
	if err == nil {
		return false
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		if provErr.Type == ErrorTypeThrottled {
			return true
		}
		if provErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
	}

	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "THROTTLINGEXCEPTION") ||
		strings.Contains(msg, "TOO MANY REQUESTS") ||
		strings.Contains(msg, "RATE_LIMIT") ||
		strings.Contains(msg, "RATE LIMIT")
}

// IsRetryable reports whether err should consume a bounded-budget retry.
// Validation failures are terminal; everything else that is not throttling
// gets the budget treatment.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) && provErr.Type == ErrorTypeValidation {
		return false
	}
	return true
}

// ClassifyStatus maps an HTTP status plus an optional provider error code
// to an ErrorType.
func ClassifyStatus(statusCode int, code string) ErrorType {
	if statusCode == http.StatusTooManyRequests ||
		strings.EqualFold(code, "throttling_error") ||
		strings.EqualFold(code, "rate_limit_error") ||
		strings.EqualFold(code, "ThrottlingException") {
		return ErrorTypeThrottled
	}
	if statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity {
		return ErrorTypeValidation
	}
	return ErrorTypeProvider
}
