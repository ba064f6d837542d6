// Package retry runs an operation under a bounded retry policy.
//
// Only errors marked with [Retryable], and attempts that overrun their own
// per-attempt deadline, are retried. Everything else is returned at once.
// The delay between attempts doubles after each failure.
//
//	err := retry.Do(ctx, retry.Default(), func(ctx context.Context) error {
//	    if err := capture(ctx); err != nil {
//	        return retry.Retryable(err)
//	    }
//	    return nil
//	})
package retry
