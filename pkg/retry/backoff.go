package retry

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Rand is the random source used for jitter. *rand.Rand satisfies it.
type Rand interface {
	Int63n(n int64) int64
}

// lockedRand makes a *rand.Rand safe to share between components
type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRand returns a goroutine-safe Rand seeded with seed
func NewRand(seed int64) Rand {
	return &lockedRand{src: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededRand returns a Rand seeded from the wall clock
func NewTimeSeededRand() Rand {
	return NewRand(time.Now().UnixNano())
}

func (r *lockedRand) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Int63n(n)
}

// BackoffStrategy defines the interface for different backoff strategies
type BackoffStrategy interface {
	// NextDelay returns the wait after the failed attempt with the given
	// zero-based index
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff waits BaseDelay * Multiplier^attempt plus a uniform
// jitter in [0, MaxJitter)
type ExponentialBackoff struct {
	// BaseDelay is the delay after the first failed attempt, before jitter
	BaseDelay time.Duration
	// MaxDelay caps the exponential part; zero means uncapped
	MaxDelay time.Duration
	// Multiplier is the factor by which delay increases
	Multiplier float64
	// MaxJitter is the exclusive upper bound of the random addition
	MaxJitter time.Duration
	// Rand drives the jitter
	Rand Rand
}

// DefaultExponentialBackoff returns 1s * 2^attempt + [0, 1s) jitter
func DefaultExponentialBackoff(r Rand) *ExponentialBackoff {
	if r == nil {
		r = NewTimeSeededRand()
	}
	return &ExponentialBackoff{
		BaseDelay:  1 * time.Second,
		Multiplier: 2.0,
		MaxJitter:  1 * time.Second,
		Rand:       r,
	}
}

// NextDelay calculates the next delay with exponential backoff and jitter
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	multiplier := eb.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	delay := float64(eb.BaseDelay) * math.Pow(multiplier, float64(attempt))
	if eb.MaxDelay > 0 && delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	result := time.Duration(delay)
	if eb.MaxJitter > 0 && eb.Rand != nil {
		result += time.Duration(eb.Rand.Int63n(int64(eb.MaxJitter)))
	}

	return result
}

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Wait waits for the specified duration or until context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
