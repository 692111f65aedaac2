package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	errs "igexport/pkg/errors"
)

// recordingSleep captures requested waits without blocking
type recordingSleep struct {
	delays []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

// fixedBackoff waits the same delay before every retry
type fixedBackoff time.Duration

func (f fixedBackoff) NextDelay(attempt int) time.Duration {
	return time.Duration(f)
}

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   1 * time.Second,
		Multiplier: 2.0,
	}

	tests := []struct {
		attempt     int
		expected    time.Duration
		description string
	}{
		{0, 100 * time.Millisecond, "First failure"},
		{1, 200 * time.Millisecond, "Second failure"},
		{2, 400 * time.Millisecond, "Third failure"},
		{3, 800 * time.Millisecond, "Fourth failure"},
		{4, 1 * time.Second, "Fifth failure (capped at max)"},
		{5, 1 * time.Second, "Sixth failure (still capped)"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			delay := backoff.NextDelay(test.attempt)
			if delay != test.expected {
				t.Errorf("Expected delay %v, got %v", test.expected, delay)
			}
		})
	}
}

func TestExponentialBackoffJitterBounds(t *testing.T) {
	backoff := DefaultExponentialBackoff(NewRand(7))

	for attempt := 0; attempt < 6; attempt++ {
		base := time.Second * time.Duration(1<<attempt)
		for i := 0; i < 50; i++ {
			delay := backoff.NextDelay(attempt)
			if delay < base || delay >= base+time.Second {
				t.Fatalf("attempt %d: delay %v outside [%v, %v)", attempt, delay, base, base+time.Second)
			}
		}
	}
}

func TestExponentialBackoffSeededIsReproducible(t *testing.T) {
	a := DefaultExponentialBackoff(NewRand(99))
	b := DefaultExponentialBackoff(NewRand(99))

	for attempt := 0; attempt < 5; attempt++ {
		if a.NextDelay(attempt) != b.NextDelay(attempt) {
			t.Fatalf("Expected identical delays for identical seeds at attempt %d", attempt)
		}
	}
}

func TestRetryWithSuccess(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	rec := &recordingSleep{}
	cfg := &Config{
		MaxRetries: 5,
		Backoff:    fixedBackoff(10 * time.Millisecond),
		RetryIf:    func(err error) bool { return true },
		Sleep:      rec.sleep,
		Context:    context.Background(),
	}

	err := Do(op, cfg)
	if err != nil {
		t.Errorf("Expected success after retries, got error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if len(rec.delays) != 2 {
		t.Errorf("Expected 2 waits, got %d", len(rec.delays))
	}
}

func TestRetryServerErrorExhaustsBudget(t *testing.T) {
	attempts := 0
	serverErr := errs.FromStatus(http.StatusInternalServerError, "https://example.com")
	op := func() error {
		attempts++
		return serverErr
	}

	rec := &recordingSleep{}
	cfg := &Config{
		MaxRetries: 5,
		Backoff:    DefaultExponentialBackoff(NewRand(1)),
		Sleep:      rec.sleep,
		Context:    context.Background(),
	}

	err := Do(op, cfg)
	if err != serverErr {
		t.Errorf("Expected the last error to be returned unchanged, got: %v", err)
	}
	if attempts != 6 {
		t.Errorf("Expected 6 attempts, got %d", attempts)
	}
	if len(rec.delays) != 5 {
		t.Fatalf("Expected 5 waits, got %d", len(rec.delays))
	}
	for i, d := range rec.delays {
		base := time.Second * time.Duration(1<<i)
		if d < base || d >= base+time.Second {
			t.Errorf("wait %d: %v outside [%v, %v)", i, d, base, base+time.Second)
		}
	}
}

func TestRetryNotFoundIsNotRetried(t *testing.T) {
	attempts := 0
	notFound := errs.FromStatus(http.StatusNotFound, "https://example.com")

	op := func() error {
		attempts++
		return notFound
	}

	rec := &recordingSleep{}
	cfg := &Config{
		MaxRetries: 5,
		Backoff:    fixedBackoff(10 * time.Millisecond),
		RetryIf:    DefaultRetryIf,
		Sleep:      rec.sleep,
		Context:    context.Background(),
	}

	err := Do(op, cfg)
	if err != notFound {
		t.Errorf("Expected not found error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt (no retry for 404), got %d", attempts)
	}
	if len(rec.delays) != 0 {
		t.Errorf("Expected no waits, got %d", len(rec.delays))
	}
}

func TestRetryAccessDeniedIsRetried(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts == 1 {
			return errs.FromStatus(http.StatusForbidden, "")
		}
		return nil
	}

	cfg := &Config{
		MaxRetries: 2,
		Backoff:    fixedBackoff(0),
		Sleep:      (&recordingSleep{}).sleep,
	}

	if err := Do(op, cfg); err != nil {
		t.Errorf("Expected success, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestRetryZeroRetries(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return errors.New("persistent error")
	}

	cfg := &Config{
		MaxRetries: 0,
		Backoff:    fixedBackoff(10 * time.Millisecond),
		Sleep:      (&recordingSleep{}).sleep,
	}

	if err := Do(op, cfg); err == nil {
		t.Error("Expected error")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestRetryWithContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	op := func() error {
		attempts++
		if attempts == 2 {
			cancel()
			return fmt.Errorf("request aborted: %w", ctx.Err())
		}
		return errors.New("error")
	}

	cfg := &Config{
		MaxRetries: 5,
		Backoff:    fixedBackoff(100 * time.Millisecond),
		RetryIf:    func(err error) bool { return true },
		Context:    ctx,
	}

	err := Do(op, cfg)
	if err == nil {
		t.Error("Expected error when context cancelled")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts before cancellation, got %d", attempts)
	}
}

func TestOnRetryCallback(t *testing.T) {
	var seen []int
	op := func() error { return errors.New("fail") }

	cfg := &Config{
		MaxRetries: 3,
		Backoff:    fixedBackoff(time.Millisecond),
		Sleep:      (&recordingSleep{}).sleep,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			seen = append(seen, attempt)
		},
	}

	_ = Do(op, cfg)
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("Expected OnRetry for attempts 1..3, got %v", seen)
	}
}

func TestRetryTimeoutErrorIsRetried(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return errs.NewNetworkError(fmt.Errorf("Client.Timeout exceeded: %w", context.DeadlineExceeded))
	}

	rec := &recordingSleep{}
	cfg := &Config{
		MaxRetries: 2,
		Backoff:    fixedBackoff(time.Millisecond),
		Sleep:      rec.sleep,
		Context:    context.Background(),
	}

	err := Do(op, cfg)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected the timeout to surface, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if len(rec.delays) != 2 {
		t.Errorf("Expected 2 waits, got %d", len(rec.delays))
	}
}

func TestRetryStopsOnceCallerDeadlinePassed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	attempts := 0
	op := func() error {
		attempts++
		return errs.NewNetworkError(ctx.Err())
	}

	cfg := &Config{
		MaxRetries: 5,
		Backoff:    fixedBackoff(0),
		Sleep:      (&recordingSleep{}).sleep,
		Context:    ctx,
	}

	if err := Do(op, cfg); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestRetrierWithContext(t *testing.T) {
	base := NewRetrier(&Config{
		MaxRetries: 3,
		Backoff:    fixedBackoff(0),
		Sleep:      (&recordingSleep{}).sleep,
		Context:    context.Background(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	r := base.WithContext(ctx)

	attempts := 0
	err := r.Do(func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("fail")
	})
	if err == nil {
		t.Error("Expected error")
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts under cancelled context, got %d", attempts)
	}

	attempts = 0
	_ = base.Do(func() error {
		attempts++
		return errors.New("fail")
	})
	if attempts != 4 {
		t.Errorf("Expected base retrier to keep its own context, got %d attempts", attempts)
	}
}

func TestWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Wait(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if err := Wait(context.Background(), 0); err != nil {
		t.Errorf("Expected nil for zero delay, got %v", err)
	}
}
