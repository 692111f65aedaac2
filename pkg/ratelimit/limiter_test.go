package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"igexport/pkg/logger"
	"igexport/pkg/retry"
)

func TestPacerBounds(t *testing.T) {
	p := NewPacer(2000*time.Millisecond, 5000*time.Millisecond, retry.NewRand(3))

	for i := 0; i < 200; i++ {
		d := p.Next()
		assert.GreaterOrEqual(t, d, 2000*time.Millisecond)
		assert.Less(t, d, 5000*time.Millisecond)
	}
}

func TestPacerDegenerateRange(t *testing.T) {
	p := NewPacer(time.Second, time.Second, retry.NewRand(1))
	assert.Equal(t, time.Second, p.Next())

	p = NewPacer(time.Second, 0, retry.NewRand(1))
	assert.Equal(t, time.Second, p.Next())
}

func TestPacerWaitUsesSleep(t *testing.T) {
	var slept []time.Duration
	tl := logger.NewTestLogger()

	p := NewPacer(10*time.Millisecond, 20*time.Millisecond, retry.NewRand(5))
	p.Logger = tl
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	require.NoError(t, p.Wait(context.Background()))
	require.Len(t, slept, 1)
	assert.GreaterOrEqual(t, slept[0], 10*time.Millisecond)
	assert.Less(t, slept[0], 20*time.Millisecond)
	assert.True(t, tl.HasMessage("Pausing before next request"))
}

func TestPacerWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPacer(time.Hour, 2*time.Hour, retry.NewRand(1))
	err := p.Wait(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPacerSeededIsReproducible(t *testing.T) {
	a := NewPacer(0, time.Second, retry.NewRand(11))
	b := NewPacer(0, time.Second, retry.NewRand(11))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestRequestLimiterUnlimited(t *testing.T) {
	rl := NewRequestLimiter(0, 0)
	assert.True(t, rl.Unlimited())
	for i := 0; i < 100; i++ {
		assert.NoError(t, rl.Wait(context.Background()))
	}

	var nilLimiter *RequestLimiter
	assert.NoError(t, nilLimiter.Wait(context.Background()))
}

func TestRequestLimiterBurst(t *testing.T) {
	rl := NewRequestLimiter(1, 3)
	assert.False(t, rl.Unlimited())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	for i := 0; i < 3; i++ {
		assert.NoError(t, rl.Wait(ctx), "token %d should be available", i+1)
	}
	assert.Error(t, rl.Wait(ctx), "bucket should be empty")
}

func TestRequestLimiterWaitHonoursContext(t *testing.T) {
	rl := NewRequestLimiter(1, 1)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := rl.Wait(ctx)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLimiterInterface(t *testing.T) {
	var _ Limiter = &Pacer{}
	var _ Limiter = &RequestLimiter{}
}
