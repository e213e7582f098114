// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time { return m.now }

var errTransport = errors.New("connection refused")

func fail() error { return errTransport }
func ok() error   { return nil }

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	clock := &mockClock{now: time.Now()}
	cb := NewCircuitBreaker("test", 3, 10*time.Second, withClock(clock))

	for i := 0; i < 2; i++ {
		require.ErrorIs(t, cb.Execute(fail), errTransport)
		assert.Equal(t, StateClosed, cb.State())
	}

	require.ErrorIs(t, cb.Execute(fail), errTransport)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "fn must not run while open")
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, 10*time.Second)

	_ = cb.Execute(fail)
	require.NoError(t, cb.Execute(ok))
	_ = cb.Execute(fail)
	assert.Equal(t, StateClosed, cb.State(), "non-consecutive failures must not trip")
}

func TestCircuitBreaker_HalfOpenBehavior(t *testing.T) {
	clock := &mockClock{now: time.Now()}
	cb := NewCircuitBreaker("test", 1, 10*time.Second, withClock(clock))

	_ = cb.Execute(fail)
	assert.Equal(t, StateOpen, cb.State())

	clock.now = clock.now.Add(11 * time.Second)
	_ = cb.Execute(fail)
	assert.Equal(t, StateOpen, cb.State(), "failed probe re-opens")

	assert.ErrorIs(t, cb.Execute(ok), ErrCircuitOpen, "reset timer restarts on re-open")

	clock.now = clock.now.Add(11 * time.Second)
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_FailurePredicate(t *testing.T) {
	errAuth := errors.New("unauthorized")
	cb := NewCircuitBreaker("test", 1, 10*time.Second, WithFailurePredicate(func(err error) bool {
		return !errors.Is(err, errAuth)
	}))

	for i := 0; i < 5; i++ {
		err := cb.Execute(func() error { return errAuth })
		assert.ErrorIs(t, err, errAuth)
	}
	assert.Equal(t, StateClosed, cb.State(), "uncounted errors must not trip the breaker")

	_ = cb.Execute(fail)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker("test", 0, 0)
	assert.Equal(t, 3, cb.threshold)
	assert.Equal(t, 30*time.Second, cb.resetTimeout)
}

func TestCircuitBreaker_PanicRecovery(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Second, WithPanicRecovery(true))

	assert.Panics(t, func() {
		_ = cb.Execute(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, cb.State())
}
