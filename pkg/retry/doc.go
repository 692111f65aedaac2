// Package retry provides exponential backoff and retry logic for handling
// transient failures in calls to Instagram's endpoints.
//
// It is the only place in igexport that retries anything. Callers hand it an
// operation; everything except a 404, a decode failure or a cancelled context
// is tried again, up to MaxRetries extra attempts.
//
// Basic usage:
//
//	err := retry.Do(func() error {
//		return fetchPage()
//	}, nil)
//
//	// Deterministic timing for tests
//	cfg := &retry.Config{
//		MaxRetries: 5,
//		Backoff:    retry.DefaultExponentialBackoff(retry.NewRand(42)),
//		Sleep: func(ctx context.Context, d time.Duration) error {
//			waits = append(waits, d)
//			return nil
//		},
//	}
//	err := retry.Do(operation, cfg)
//
// The wait after failed attempt n (zero-based) is BaseDelay*2^n plus a
// uniform jitter in [0, MaxJitter).
package retry
