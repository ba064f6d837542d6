package retry

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/flowbench/pkg/errors"
)

// Policy bounds a retried operation.
type Policy struct {
	// Attempts is the total number of tries. Values below 1 mean 1.
	Attempts int
	// Delay is the wait before the second attempt; it doubles afterwards.
	Delay time.Duration
	// Timeout bounds each attempt. Zero means no per-attempt deadline.
	Timeout time.Duration
}

// Default returns 3 attempts, a 1s initial delay and a 30s attempt timeout.
func Default() Policy {
	return Policy{Attempts: 3, Delay: time.Second, Timeout: 30 * time.Second}
}

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err so that [Do] tries again. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is marked with [Retryable].
func IsRetryable(err error) bool {
	return stderrors.As(err, new(*RetryableError))
}

// Do runs fn until it succeeds, returns a non-retryable error, or the
// policy's attempts are used up. Each attempt receives its own context
// bounded by Policy.Timeout. If every attempt timed out, the returned error
// carries [errors.ErrCodeTimeout]. Cancelling ctx stops the loop and
// returns ctx.Err().
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		actx, cancel := attemptContext(ctx, p.Timeout)
		err := fn(actx)
		timedOut := err != nil && actx.Err() == context.DeadlineExceeded
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
		if timedOut {
			lastErr = errors.Wrap(errors.ErrCodeTimeout, err, "attempt %d/%d exceeded %s", i+1, attempts, p.Timeout)
		} else if !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func attemptContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
