package routing

import (
	"errors"
	"sync"
	"time"

	"github.com/minsukang/tripweaver/internal/domain/shared"
)

// BreakerState is the circuit breaker's current disposition
type BreakerState int

const (
	// BreakerClosed allows all provider calls
	BreakerClosed BreakerState = iota
	// BreakerOpen short-circuits provider calls to the fallback
	BreakerOpen
	// BreakerHalfOpen allows a probe call to test recovery
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// ErrBreakerOpen is returned when the breaker refuses a call
var ErrBreakerOpen = errors.New("circuit breaker open")

// CircuitBreaker guards the transit provider: maxFailures consecutive
// failures open it, and after cooldown the next call probes half-open.
type CircuitBreaker struct {
	maxFailures int
	cooldown    time.Duration

	mu          sync.RWMutex
	state       BreakerState
	failures    int
	lastFailure time.Time
	probing     bool
	clock       shared.Clock
}

// NewCircuitBreaker builds a closed breaker. A nil clock means RealClock.
func NewCircuitBreaker(maxFailures int, cooldown time.Duration, clock shared.Clock) *CircuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CircuitBreaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		state:       BreakerClosed,
		clock:       clock,
	}
}

// Call runs fn under breaker protection. The lock is not held during fn so
// slow provider calls never block state checks from other goroutines.
// HALF_OPEN admits a single probe; concurrent callers short-circuit until
// the probe resolves.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == BreakerOpen {
		if cb.clock.Now().Sub(cb.lastFailure) < cb.cooldown {
			cb.mu.Unlock()
			return ErrBreakerOpen
		}
		cb.state = BreakerHalfOpen
	}
	isProbe := false
	if cb.state == BreakerHalfOpen {
		if cb.probing {
			cb.mu.Unlock()
			return ErrBreakerOpen
		}
		cb.probing = true
		isProbe = true
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if isProbe {
		cb.probing = false
	}
	if err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++
	cb.lastFailure = cb.clock.Now()

	if cb.state == BreakerHalfOpen {
		cb.state = BreakerOpen
		return
	}
	if cb.failures >= cb.maxFailures {
		cb.state = BreakerOpen
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.failures = 0
	if cb.state == BreakerHalfOpen {
		cb.state = BreakerClosed
	}
}

// State returns the current breaker state
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// FailureCount returns the consecutive failure count
func (cb *CircuitBreaker) FailureCount() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failures
}

// Trip forces the breaker into a state, for tests
func (cb *CircuitBreaker) Trip(state BreakerState, failures int, lastFailure time.Time) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = state
	cb.failures = failures
	cb.lastFailure = lastFailure
	cb.probing = false
}
