package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"igexport/pkg/logger"
	"igexport/pkg/retry"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Wait blocks until the next request may go out or ctx is done
	Wait(ctx context.Context) error
}

// Pacer inserts a randomized human-like pause between logical requests
type Pacer struct {
	// Min is the inclusive lower bound of the pause
	Min time.Duration
	// Max is the exclusive upper bound; Max <= Min always yields Min
	Max time.Duration
	// Rand draws the pause length
	Rand retry.Rand
	// Sleep performs the pause; defaults to retry.Wait
	Sleep retry.SleepFunc
	// Logger records each pause at debug level
	Logger logger.Logger
}

// NewPacer creates a pacer drawing pauses uniformly from [min, max)
func NewPacer(min, max time.Duration, r retry.Rand) *Pacer {
	if r == nil {
		r = retry.NewTimeSeededRand()
	}
	return &Pacer{
		Min:   min,
		Max:   max,
		Rand:  r,
		Sleep: retry.Wait,
	}
}

// Next returns the length of the next pause
func (p *Pacer) Next() time.Duration {
	span := p.Max - p.Min
	if span <= 0 || p.Rand == nil {
		return p.Min
	}
	return p.Min + time.Duration(p.Rand.Int63n(int64(span)))
}

// Wait pauses for one randomized delay
func (p *Pacer) Wait(ctx context.Context) error {
	d := p.Next()
	if p.Logger != nil {
		logger.LogRateLimit(p.Logger, "pacing", d)
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = retry.Wait
	}
	return sleep(ctx, d)
}

// RequestLimiter caps the outgoing request rate with a token bucket
type RequestLimiter struct {
	limiter *rate.Limiter
}

// NewRequestLimiter allows requestsPerMinute requests with the given burst.
// A non-positive rate disables limiting.
func NewRequestLimiter(requestsPerMinute, burst int) *RequestLimiter {
	if requestsPerMinute <= 0 {
		return &RequestLimiter{}
	}
	if burst <= 0 {
		burst = 1
	}
	every := time.Minute / time.Duration(requestsPerMinute)
	return &RequestLimiter{limiter: rate.NewLimiter(rate.Every(every), burst)}
}

// Wait blocks until a token is available
func (rl *RequestLimiter) Wait(ctx context.Context) error {
	if rl == nil || rl.limiter == nil {
		return ctx.Err()
	}
	return rl.limiter.Wait(ctx)
}

// Unlimited reports whether the limiter never blocks
func (rl *RequestLimiter) Unlimited() bool {
	return rl == nil || rl.limiter == nil
}
