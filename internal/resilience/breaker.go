// Package resilience provides the circuit breaker whose open state the
// engine knows how to remediate.
package resilience

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fyrsmithlabs/remedy/internal/faults"
)

// State is a breaker state.
type State uint32

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Observer receives breaker events. Implementations must be quick and must
// not call back into the breaker.
type Observer interface {
	OnStateChange(name string, from, to State)
	OnAttempt(name string)
	OnResult(name string, err error, d time.Duration)
}

// Breaker guards calls to a failing dependency.
type Breaker interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
	State() State
	Trip()
	Reset()
	Observe(o Observer)
}

const (
	DefaultThreshold  int32 = 5
	DefaultResetAfter       = 30 * time.Second
)

// CircuitBreaker opens after Threshold consecutive failures and lets a
// single trial call through once ResetAfter has elapsed.
type CircuitBreaker struct {
	name       string
	threshold  int32
	resetAfter time.Duration
	now        func() time.Time

	failures    atomic.Int32
	state       atomic.Uint32
	lastFailure atomic.Int64 // unix nanos

	mu        sync.RWMutex
	observers []Observer
}

// Option configures a CircuitBreaker.
type Option func(*CircuitBreaker)

func WithThreshold(n int32) Option {
	return func(cb *CircuitBreaker) {
		if n > 0 {
			cb.threshold = n
		}
	}
}

func WithResetAfter(d time.Duration) Option {
	return func(cb *CircuitBreaker) {
		if d > 0 {
			cb.resetAfter = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(cb *CircuitBreaker) { cb.now = now }
}

// New returns a closed breaker.
func New(name string, opts ...Option) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:       name,
		threshold:  DefaultThreshold,
		resetAfter: DefaultResetAfter,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb
}

func (cb *CircuitBreaker) Name() string { return cb.name }

func (cb *CircuitBreaker) State() State { return State(cb.state.Load()) }

// Observe registers o for future events.
func (cb *CircuitBreaker) Observe(o Observer) {
	if o == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.observers = append(cb.observers, o)
}

// Execute runs fn unless the breaker is open, in which case it returns a
// *faults.CircuitBreakerOpenError without calling fn. A cancelled context
// is returned as is and does not count as a failure, though a cancelled
// half-open trial returns the breaker to open so the next call tries again.
// A panicking fn counts as a failure and the panic propagates.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	trial, ok := cb.allow()
	if !ok {
		return OpenError(cb.name, cb.retryAfter())
	}

	cb.each(func(o Observer) { o.OnAttempt(cb.name) })
	settled := false
	defer func() {
		if !settled {
			cb.recordFailure()
		}
	}()

	start := cb.now()
	err := fn(ctx)
	settled = true
	elapsed := cb.now().Sub(start)
	cb.each(func(o Observer) { o.OnResult(cb.name, err, elapsed) })

	switch {
	case err == nil:
		cb.recordSuccess()
	case errors.Is(err, context.Canceled):
		if trial {
			cb.abandonTrial()
		}
	default:
		cb.recordFailure()
	}
	return err
}

// Trip forces the breaker open.
func (cb *CircuitBreaker) Trip() {
	cb.lastFailure.Store(cb.now().UnixNano())
	cb.transition(StateOpen)
}

// Reset closes the breaker and clears the failure count.
func (cb *CircuitBreaker) Reset() {
	cb.failures.Store(0)
	cb.transition(StateClosed)
}

// allow reports whether a call may proceed and whether it is the single
// half-open trial.
func (cb *CircuitBreaker) allow() (trial, ok bool) {
	for {
		switch State(cb.state.Load()) {
		case StateOpen:
			if cb.now().Sub(time.Unix(0, cb.lastFailure.Load())) < cb.resetAfter {
				return false, false
			}
			// only one caller wins the trial
			if cb.state.CompareAndSwap(uint32(StateOpen), uint32(StateHalfOpen)) {
				cb.notify(StateOpen, StateHalfOpen)
				return true, true
			}
		case StateHalfOpen:
			return false, false
		default:
			return false, true
		}
	}
}

// abandonTrial reopens a half-open breaker without restarting the
// cool-down, so the next call becomes the trial.
func (cb *CircuitBreaker) abandonTrial() {
	if cb.state.CompareAndSwap(uint32(StateHalfOpen), uint32(StateOpen)) {
		cb.notify(StateHalfOpen, StateOpen)
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.failures.Store(0)
	cb.transition(StateClosed)
}

func (cb *CircuitBreaker) recordFailure() {
	for {
		current := cb.failures.Load()
		if current == math.MaxInt32 {
			return
		}
		next := current + 1
		if !cb.failures.CompareAndSwap(current, next) {
			continue
		}
		if next >= cb.threshold || State(cb.state.Load()) == StateHalfOpen {
			cb.lastFailure.Store(cb.now().UnixNano())
			for _, from := range []State{StateClosed, StateHalfOpen} {
				if cb.state.CompareAndSwap(uint32(from), uint32(StateOpen)) {
					cb.notify(from, StateOpen)
					break
				}
			}
		}
		return
	}
}

func (cb *CircuitBreaker) transition(to State) {
	from := State(cb.state.Swap(uint32(to)))
	if from != to {
		cb.notify(from, to)
	}
}

func (cb *CircuitBreaker) retryAfter() time.Duration {
	left := cb.resetAfter - cb.now().Sub(time.Unix(0, cb.lastFailure.Load()))
	if left < 0 {
		return 0
	}
	return left
}

func (cb *CircuitBreaker) notify(from, to State) {
	cb.each(func(o Observer) { o.OnStateChange(cb.name, from, to) })
}

func (cb *CircuitBreaker) each(fn func(Observer)) {
	cb.mu.RLock()
	observers := cb.observers
	cb.mu.RUnlock()
	for _, o := range observers {
		fn(o)
	}
}

// OpenError describes an open breaker as a fault the engine can classify.
func OpenError(name string, retryAfter time.Duration) *faults.CircuitBreakerOpenError {
	return faults.CircuitOpen(name, retryAfter.Round(time.Second))
}

// AsFault lifts err into the fault model. Breaker rejections anywhere on
// the chain come back as the CircuitBreakerOpenError itself, and context
// deadlines become timeouts. Everything else goes through faults.From.
func AsFault(err error) faults.Error {
	if err == nil {
		return nil
	}
	var open *faults.CircuitBreakerOpenError
	if errors.As(err, &open) {
		return open
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return faults.Timeout("call", 0)
	}
	return faults.From(err)
}

var _ Breaker = (*CircuitBreaker)(nil)
