package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen   = errors.New("circuit breaker is open")
	ErrProbeInFlight = errors.New("circuit breaker is probing")
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures a breaker guarding one remote dependency
type Settings struct {
	// FailureThreshold consecutive failures trip the breaker
	FailureThreshold uint32
	// Probes is the number of half-open calls that must succeed to close
	Probes uint32
	// Cooldown is how long the breaker stays open before probing
	Cooldown time.Duration
	// Window clears closed-state counts periodically; zero never clears
	Window time.Duration
	// IsFailure classifies errors; context cancellation is never a failure
	IsFailure func(error) bool
	// OnStateChange is called with the lock released
	OnStateChange func(name string, from, to State)
	// Now is the clock, replaced in tests
	Now func() time.Time
}

// Counts holds the statistics of the current generation
type Counts struct {
	Requests             uint32
	Successes            uint32
	Failures             uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// Breaker implements the circuit breaker pattern
type Breaker struct {
	name     string
	settings Settings

	mu         sync.Mutex
	state      State
	counts     Counts
	generation uint64
	openedAt   time.Time
	windowEnd  time.Time
	inFlight   uint32
}

// New creates a breaker with defaults filled in
func New(name string, settings Settings) *Breaker {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	if settings.Probes == 0 {
		settings.Probes = 1
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.IsFailure == nil {
		settings.IsFailure = func(err error) bool { return err != nil }
	}

	b := &Breaker{name: name, settings: settings}
	if settings.Window > 0 {
		b.windowEnd = settings.Now().Add(settings.Window)
	}
	return b
}

// Name returns the breaker name
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state, advancing open to half-open after the cooldown
func (b *Breaker) State() State {
	b.mu.Lock()
	state, notify := b.refresh(b.settings.Now())
	b.mu.Unlock()
	notify()
	return state
}

// Counts returns a copy of the current counts
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Do runs fn when the breaker admits the call
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	gen, err := b.admit()
	if err != nil {
		return err
	}

	completed := false
	defer func() {
		if !completed {
			b.settle(gen, false)
		}
	}()

	err = fn(ctx)
	completed = true
	b.settle(gen, !b.countsAsFailure(err))
	return err
}

// Call is Do for functions returning a value
func Call[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := b.Do(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}

// Reset forces the breaker closed
func (b *Breaker) Reset() {
	b.mu.Lock()
	notify := b.transition(StateClosed, b.settings.Now())
	b.mu.Unlock()
	notify()
}

func (b *Breaker) countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return b.settings.IsFailure(err)
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	state, notify := b.refresh(b.settings.Now())
	gen := b.generation

	var err error
	switch state {
	case StateOpen:
		err = ErrCircuitOpen
	case StateHalfOpen:
		if b.inFlight >= b.settings.Probes {
			err = ErrProbeInFlight
		}
	}
	if err == nil {
		b.inFlight++
		b.counts.Requests++
	}
	b.mu.Unlock()

	notify()
	return gen, err
}

func (b *Breaker) settle(gen uint64, success bool) {
	b.mu.Lock()
	now := b.settings.Now()
	state, notify := b.refresh(now)

	// Results from a previous generation do not count.
	if gen != b.generation {
		b.mu.Unlock()
		notify()
		return
	}
	if b.inFlight > 0 {
		b.inFlight--
	}

	next := func() {}
	if success {
		b.counts.Successes++
		b.counts.ConsecutiveSuccesses++
		b.counts.ConsecutiveFailures = 0
		if state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.settings.Probes {
			next = b.transition(StateClosed, now)
		}
	} else {
		b.counts.Failures++
		b.counts.ConsecutiveFailures++
		b.counts.ConsecutiveSuccesses = 0
		if state == StateHalfOpen || b.counts.ConsecutiveFailures >= b.settings.FailureThreshold {
			next = b.transition(StateOpen, now)
		}
	}
	b.mu.Unlock()

	notify()
	next()
}

// refresh applies time-based transitions; the returned func fires callbacks
// and must be called after the lock is released.
func (b *Breaker) refresh(now time.Time) (State, func()) {
	switch b.state {
	case StateClosed:
		if !b.windowEnd.IsZero() && now.After(b.windowEnd) {
			b.counts = Counts{}
			b.windowEnd = now.Add(b.settings.Window)
		}
	case StateOpen:
		if !now.Before(b.openedAt.Add(b.settings.Cooldown)) {
			notify := b.transition(StateHalfOpen, now)
			return b.state, notify
		}
	}
	return b.state, func() {}
}

func (b *Breaker) transition(to State, now time.Time) func() {
	from := b.state
	if from == to {
		return func() {}
	}

	b.state = to
	b.generation++
	b.counts = Counts{}
	b.inFlight = 0

	switch to {
	case StateOpen:
		b.openedAt = now
	case StateClosed:
		if b.settings.Window > 0 {
			b.windowEnd = now.Add(b.settings.Window)
		}
	}

	cb := b.settings.OnStateChange
	if cb == nil {
		return func() {}
	}
	name := b.name
	return func() { cb(name, from, to) }
}
