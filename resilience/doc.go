// Package resilience provides the fault-tolerance primitives used around
// speech and language backends.
//
//   - CircuitBreaker: stop calling a backend that keeps failing
//   - Retry: repeat transient failures with exponential backoff
//   - Bulkhead: cap the number of concurrent pipeline runs
//
// They compose from the outside in:
//
//	err := bh.Execute(ctx, func() error {
//	    return cb.Execute(func() error {
//	        return resilience.RetryFunc(ctx, retryCfg, call)
//	    })
//	})
package resilience
