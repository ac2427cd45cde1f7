// Package remote wraps outbound API calls with timeout, retry and
// exponential backoff with jitter. Callers treat a failed call as
// "operation unavailable" and degrade instead of propagating errors.
package remote

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net"
	"strings"
	"syscall"
	"time"

	"pr-risk-analyzer/config"

	"go.uber.org/zap"
)

// HTTPError carries a remote status code so the caller can classify it.
type HTTPError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Status)
}

// Caller executes remote operations under the configured retry policy.
type Caller struct {
	log *zap.SugaredLogger
	cfg config.RetryConfig
}

// NewCaller constructs a Caller.
func NewCaller(log *zap.SugaredLogger, cfg config.RetryConfig) *Caller {
	return &Caller{log: log.Named("remote"), cfg: cfg}
}

// Do runs fn with a per-attempt timeout and retries retryable failures
// with exponential backoff and jitter. It returns the zero value and
// false after a non-retryable failure or once retries are exhausted.
func Do[T any](ctx context.Context, c *Caller, name string, fn func(ctx context.Context) (T, error)) (T, bool) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		result, err := fn(attemptCtx)
		cancel()

		if err == nil {
			if attempt > 0 {
				c.log.Infow("retry succeeded",
					"call", name,
					"attempt", attempt+1,
				)
			}
			return result, true
		}

		lastErr = err

		if attempt < c.cfg.MaxRetries && IsRetryable(err) {
			backoff := c.Backoff(attempt)
			c.log.Warnw("attempt failed, retrying",
				"call", name,
				"attempt", attempt+1,
				"max_attempts", c.cfg.MaxRetries+1,
				"backoff", backoff,
				"error", err,
			)
			if !sleep(ctx, backoff) {
				return zero, false
			}
			continue
		}

		if IsRetryable(err) {
			c.log.Errorw("retries exhausted",
				"call", name,
				"attempts", attempt+1,
				"error", lastErr,
			)
		} else {
			c.log.Errorw("non-retryable error",
				"call", name,
				"attempt", attempt+1,
				"error", err,
			)
		}
		return zero, false
	}

	return zero, false
}

// Backoff returns the randomized delay before the given 0-indexed
// retry attempt: min(initial * multiplier^attempt, cap) +- jitter.
func (c *Caller) Backoff(attempt int) time.Duration {
	exponential := float64(c.cfg.InitialBackoff) * math.Pow(c.cfg.Multiplier, float64(attempt))
	capped := math.Min(exponential, float64(c.cfg.MaxBackoff))

	jitterRange := capped * c.cfg.JitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange

	d := time.Duration(capped + jitter)
	if d < 0 {
		return 0
	}
	return d
}

// IsRetryable classifies an error as transient. Retryable: HTTP
// 408/429/5xx, timeouts and common transient network failures.
// Permanent remote failures (401/403/404-class) are not retried.
func IsRetryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == 408 ||
			httpErr.StatusCode == 429 ||
			httpErr.StatusCode >= 500
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out")
}

// sleep waits for d, bailing out early if ctx is canceled. Returns
// false when the wait was interrupted.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
