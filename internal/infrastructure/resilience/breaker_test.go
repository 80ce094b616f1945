package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var errBoom = errors.New("boom")

func fail(context.Context) error    { return errBoom }
func succeed(context.Context) error { return nil }

func newTestBreaker(clock *fakeClock, onChange func(string, State, State)) *Breaker {
	return New("launcher", Settings{
		FailureThreshold: 2,
		Probes:           2,
		Cooldown:         time.Second,
		OnStateChange:    onChange,
		Now:              clock.Now,
	})
}

func TestBreakerTripsAfterThreshold(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := newTestBreaker(clock, nil)
	ctx := context.Background()

	assert.ErrorIs(t, b.Do(ctx, fail), errBoom)
	assert.Equal(t, StateClosed, b.State())
	assert.ErrorIs(t, b.Do(ctx, fail), errBoom)
	assert.Equal(t, StateOpen, b.State())

	called := false
	err := b.Do(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerSuccessResetsConsecutiveFailures(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := newTestBreaker(clock, nil)
	ctx := context.Background()

	_ = b.Do(ctx, fail)
	require.NoError(t, b.Do(ctx, succeed))
	_ = b.Do(ctx, fail)

	assert.Equal(t, StateClosed, b.State())
	counts := b.Counts()
	assert.Equal(t, uint32(3), counts.Requests)
	assert.Equal(t, uint32(2), counts.Failures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
}

func TestBreakerHalfOpenProbes(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	var transitions []string
	b := newTestBreaker(clock, func(_ string, from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})
	ctx := context.Background()

	_ = b.Do(ctx, fail)
	_ = b.Do(ctx, fail)
	clock.Advance(time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Do(ctx, succeed))
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, b.Do(ctx, succeed))
	assert.Equal(t, StateClosed, b.State())

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := newTestBreaker(clock, nil)
	ctx := context.Background()

	_ = b.Do(ctx, fail)
	_ = b.Do(ctx, fail)
	clock.Advance(time.Second)

	assert.ErrorIs(t, b.Do(ctx, fail), errBoom)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerLimitsConcurrentProbes(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := New("launcher", Settings{FailureThreshold: 1, Probes: 1, Cooldown: time.Second, Now: clock.Now})
	ctx := context.Background()

	_ = b.Do(ctx, fail)
	clock.Advance(time.Second)

	err := b.Do(ctx, func(ctx context.Context) error {
		return b.Do(ctx, succeed)
	})
	assert.ErrorIs(t, err, ErrProbeInFlight)
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := newTestBreaker(clock, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := b.Do(ctx, func(context.Context) error { return context.Canceled })
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := New("launcher", Settings{FailureThreshold: 1, Now: clock.Now})

	assert.Panics(t, func() {
		_ = b.Do(context.Background(), func(context.Context) error { panic("bad") })
	})
	assert.Equal(t, StateOpen, b.State())
}

func TestCallReturnsValue(t *testing.T) {
	b := New("launcher", Settings{})
	v, err := Call(context.Background(), b, func(context.Context) (string, error) {
		return "ready", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ready", v)
}

func TestReset(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := New("launcher", Settings{FailureThreshold: 1, Now: clock.Now})
	_ = b.Do(context.Background(), fail)
	require.Equal(t, StateOpen, b.State())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Do(context.Background(), succeed))
}
