package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/remedy/internal/faults"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recorder struct {
	mu          sync.Mutex
	transitions []string
	attempts    int
	results     []error
}

func (r *recorder) OnStateChange(_ string, from, to State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, fmt.Sprintf("%s->%s", from, to))
}

func (r *recorder) OnAttempt(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
}

func (r *recorder) OnResult(_ string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, err)
}

var errBoom = errors.New("boom")

func fail(context.Context) error    { return errBoom }
func succeed(context.Context) error { return nil }

func TestCircuitBreakerLifecycle(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rec := &recorder{}
	cb := New("payments", WithThreshold(2), WithResetAfter(10*time.Second), WithClock(clock.Now))
	cb.Observe(rec)
	ctx := context.Background()

	require.ErrorIs(t, cb.Execute(ctx, fail), errBoom)
	assert.Equal(t, StateClosed, cb.State())
	require.ErrorIs(t, cb.Execute(ctx, fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	clock.Advance(4 * time.Second)
	err := cb.Execute(ctx, succeed)
	var open *faults.CircuitBreakerOpenError
	require.ErrorAs(t, err, &open)
	assert.Equal(t, "payments", open.Name)
	assert.Equal(t, 6*time.Second, open.RetryAfter)

	clock.Advance(7 * time.Second)
	require.NoError(t, cb.Execute(ctx, succeed))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, rec.transitions)
	assert.Equal(t, 3, rec.attempts)
}

func TestCircuitBreakerFailedTrialReopens(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	cb := New("db", WithThreshold(1), WithResetAfter(time.Second), WithClock(clock.Now))
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	clock.Advance(2 * time.Second)
	require.ErrorIs(t, cb.Execute(ctx, fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreakerTripReset(t *testing.T) {
	cb := New("svc")
	cb.Trip()
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.Equal(t, faults.CategoryCircuitBreaker, faults.Classify(err))

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.NoError(t, cb.Execute(context.Background(), succeed))
}

func TestCircuitBreakerIgnoresCancellation(t *testing.T) {
	cb := New("svc", WithThreshold(1))
	err := cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, cb.Execute(ctx, succeed), context.Canceled)
}

func TestCircuitBreakerHalfOpenOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		call       func(context.Context) error
		wantState  State
		thenCallOK bool
	}{
		{
			name:       "cancelled call reopens and allows the next attempt",
			call:       func(context.Context) error { return context.Canceled },
			wantState:  StateOpen,
			thenCallOK: true,
		},
		{
			name:      "panicking call reopens with a fresh cool-down",
			call:      func(context.Context) error { panic("exploded") },
			wantState: StateOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
			cb := New("svc", WithThreshold(1), WithResetAfter(time.Minute), WithClock(clock.Now))
			ctx := context.Background()

			cb.Trip()
			clock.Advance(2 * time.Minute)

			func() {
				defer func() { _ = recover() }()
				_ = cb.Execute(ctx, tt.call)
			}()
			assert.Equal(t, tt.wantState, cb.State())

			err := cb.Execute(ctx, succeed)
			if tt.thenCallOK {
				require.NoError(t, err)
				assert.Equal(t, StateClosed, cb.State())
				return
			}
			var open *faults.CircuitBreakerOpenError
			require.ErrorAs(t, err, &open)

			clock.Advance(2 * time.Minute)
			require.NoError(t, cb.Execute(ctx, succeed))
			assert.Equal(t, StateClosed, cb.State())
		})
	}
}

func TestCircuitBreakerPanicCountsAsFailure(t *testing.T) {
	cb := New("svc", WithThreshold(1))

	assert.Panics(t, func() {
		_ = cb.Execute(context.Background(), func(context.Context) error { panic("boom") })
	})
	assert.Equal(t, StateOpen, cb.State())
}

func TestAsFault(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want faults.Category
	}{
		{name: "nil", err: nil, want: faults.CategoryUnspecified},
		{name: "open breaker", err: OpenError("x", time.Second), want: faults.CategoryCircuitBreaker},
		{name: "wrapped open breaker", err: fmt.Errorf("call: %w", OpenError("x", 0)), want: faults.CategoryCircuitBreaker},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: faults.CategoryTimeout},
		{name: "fault passes through", err: faults.NotFound("file", "a"), want: faults.CategoryNotFound},
		{name: "plain error", err: errBoom, want: faults.CategoryUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AsFault(tt.err)
			if tt.err == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Category())
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
