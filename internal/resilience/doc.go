// Package resilience provides reliability and fault tolerance patterns for the application.
// It includes implementations of circuit breakers and retry logic to keep the
// pipeline healthy when remote sites or the shared store misbehave.
//
// The package supports:
//   - Circuit breakers for outbound page and SPA metadata fetches
//   - Retry logic with exponential backoff and jitter for background cache writes
//
// Retry is deliberately absent from the pipeline itself: a fetch attempt is
// terminal and the caller decides whether to retry based on the error code.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.PageFetchConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchPage()
//	})
//
//	retryConfig := retry.CacheWriteConfig()
//	err := retry.WithBackoff(ctx, retryConfig, func() error {
//	    return writeRecord()
//	})
package resilience
