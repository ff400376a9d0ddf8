package routing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsukang/tripweaver/internal/domain/shared"
)

func TestCircuitBreaker(t *testing.T) {
	errProvider := errors.New("provider down")
	failing := func() error { return errProvider }
	succeeding := func() error { return nil }

	t.Run("stays closed under the failure threshold", func(t *testing.T) {
		clock := shared.NewMockClock(time.Now())
		cb := NewCircuitBreaker(5, 30*time.Second, clock)

		for i := 0; i < 4; i++ {
			assert.ErrorIs(t, cb.Call(failing), errProvider)
		}

		assert.Equal(t, BreakerClosed, cb.State())
		assert.Equal(t, 4, cb.FailureCount())
	})

	t.Run("opens at the threshold and short-circuits", func(t *testing.T) {
		clock := shared.NewMockClock(time.Now())
		cb := NewCircuitBreaker(5, 30*time.Second, clock)

		for i := 0; i < 5; i++ {
			cb.Call(failing)
		}
		require.Equal(t, BreakerOpen, cb.State())

		called := false
		err := cb.Call(func() error { called = true; return nil })

		assert.ErrorIs(t, err, ErrBreakerOpen)
		assert.False(t, called)
	})

	t.Run("success resets the failure count", func(t *testing.T) {
		clock := shared.NewMockClock(time.Now())
		cb := NewCircuitBreaker(5, 30*time.Second, clock)

		cb.Call(failing)
		cb.Call(failing)
		require.NoError(t, cb.Call(succeeding))

		assert.Equal(t, 0, cb.FailureCount())
		assert.Equal(t, BreakerClosed, cb.State())
	})

	t.Run("cooldown admits a probe that can close the breaker", func(t *testing.T) {
		clock := shared.NewMockClock(time.Now())
		cb := NewCircuitBreaker(5, 30*time.Second, clock)

		for i := 0; i < 5; i++ {
			cb.Call(failing)
		}
		require.Equal(t, BreakerOpen, cb.State())

		clock.Advance(31 * time.Second)
		require.NoError(t, cb.Call(succeeding))

		assert.Equal(t, BreakerClosed, cb.State())
	})

	t.Run("only one probe is admitted at a time", func(t *testing.T) {
		clock := shared.NewMockClock(time.Now())
		cb := NewCircuitBreaker(5, 30*time.Second, clock)

		for i := 0; i < 5; i++ {
			cb.Call(failing)
		}
		clock.Advance(31 * time.Second)

		entered := make(chan struct{})
		release := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- cb.Call(func() error {
				close(entered)
				<-release
				return nil
			})
		}()
		<-entered

		// While the probe is in flight, other callers short-circuit
		called := false
		err := cb.Call(func() error { called = true; return nil })
		assert.ErrorIs(t, err, ErrBreakerOpen)
		assert.False(t, called)

		close(release)
		require.NoError(t, <-done)
		assert.Equal(t, BreakerClosed, cb.State())
	})

	t.Run("a failed probe reopens immediately", func(t *testing.T) {
		clock := shared.NewMockClock(time.Now())
		cb := NewCircuitBreaker(5, 30*time.Second, clock)

		for i := 0; i < 5; i++ {
			cb.Call(failing)
		}
		clock.Advance(31 * time.Second)

		assert.ErrorIs(t, cb.Call(failing), errProvider)
		assert.Equal(t, BreakerOpen, cb.State())

		// Still inside the fresh cooldown
		assert.ErrorIs(t, cb.Call(succeeding), ErrBreakerOpen)
	})
}

func TestBreakerStateString(t *testing.T) {
	assert.Equal(t, "closed", BreakerClosed.String())
	assert.Equal(t, "open", BreakerOpen.String())
	assert.Equal(t, "half-open", BreakerHalfOpen.String())
}
