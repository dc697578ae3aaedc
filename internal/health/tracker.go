// Package health implements per-provider circuit breakers with exponential
// backoff and single-probe recovery.
package health

import (
	"sync"
	"time"
)

// Breaker tuning. Backoff doubles on open, is dampened by 1.5x on each
// recovery probe, and halves when a success streak closes the circuit.
const (
	// FailureThreshold is the consecutive-failure count that opens the circuit.
	FailureThreshold = 3
	// BaseBackoff is the floor for the backoff window.
	BaseBackoff = 5 * time.Second
	// MaxBackoff caps backoff growth.
	MaxBackoff = 300 * time.Second
	// probeBackoffFactor dampens thrashing while a provider recovers.
	probeBackoffFactor = 1.5
)

// Snapshot is a read-only copy of a tracker's state for introspection.
type Snapshot struct {
	Provider            string        `json:"provider"`
	Available           bool          `json:"available"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	LastFailureAt       time.Time     `json:"last_failure_at"`
	Backoff             time.Duration `json:"backoff"`
	MaxBackoff          time.Duration `json:"max_backoff"`
}

// Tracker is a circuit breaker for one provider. CLOSED means calls may be
// issued; OPEN means the provider is in backoff. A half-open probe is
// modeled as a one-call optimistic transition back to CLOSED.
//
// Trackers are shared across concurrent requests; all state is guarded by
// an internal mutex. The breaker is a heuristic, not a lock: a slightly
// late transition under racing updates is acceptable.
type Tracker struct {
	mu sync.Mutex

	provider            string
	available           bool
	consecutiveFailures int
	lastFailureAt       time.Time
	backoff             time.Duration
	maxBackoff          time.Duration
}

// NewTracker creates a closed tracker for the named provider.
func NewTracker(provider string) *Tracker {
	return &Tracker{
		provider:   provider,
		available:  true,
		backoff:    BaseBackoff,
		maxBackoff: MaxBackoff,
	}
}

// Provider returns the provider name this tracker guards.
func (t *Tracker) Provider() string {
	return t.provider
}

// RecordSuccess registers a successful call. Failures decrement toward zero;
// when they reach zero while the circuit is open, the backoff halves (floored
// at base) and the circuit closes.
func (t *Tracker) RecordSuccess() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.consecutiveFailures > 0 {
		t.consecutiveFailures--
	}
	if t.consecutiveFailures == 0 && !t.available {
		t.backoff /= 2
		if t.backoff < BaseBackoff {
			t.backoff = BaseBackoff
		}
		t.available = true
	}
}

// RecordFailure registers a failed call. At the failure threshold the
// circuit opens and the backoff doubles, capped at max.
func (t *Tracker) RecordFailure(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.consecutiveFailures++
	t.lastFailureAt = now
	if t.consecutiveFailures >= FailureThreshold {
		t.available = false
		t.backoff *= 2
		if t.backoff > t.maxBackoff {
			t.backoff = t.maxBackoff
		}
	}
}

// Available reports whether the circuit is closed.
func (t *Tracker) Available() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.available
}

// ShouldAttemptRecovery reports whether an open circuit is due for a probe.
// When due, the tracker optimistically closes for exactly one call: failures
// drop by two and the backoff grows by 1.5x to dampen thrashing regardless
// of how the probe turns out. The probe's own result is then recorded via
// RecordSuccess or RecordFailure as usual.
func (t *Tracker) ShouldAttemptRecovery(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.available {
		return false
	}
	if now.Sub(t.lastFailureAt) <= t.backoff {
		return false
	}

	t.available = true
	t.consecutiveFailures -= 2
	if t.consecutiveFailures < 0 {
		t.consecutiveFailures = 0
	}
	t.backoff = time.Duration(float64(t.backoff) * probeBackoffFactor)
	if t.backoff > t.maxBackoff {
		t.backoff = t.maxBackoff
	}
	return true
}

// DueForRecovery reports, without side effects, whether an open circuit has
// waited out its backoff window. Used for strategy decisions that must not
// consume the recovery probe.
func (t *Tracker) DueForRecovery(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.available {
		return true
	}
	return now.Sub(t.lastFailureAt) > t.backoff
}

// Eligible reports whether a call may be issued right now: either the
// circuit is closed, or it is open and due for a recovery probe.
func (t *Tracker) Eligible(now time.Time) bool {
	if t.Available() {
		return true
	}
	return t.ShouldAttemptRecovery(now)
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{
		Provider:            t.provider,
		Available:           t.available,
		ConsecutiveFailures: t.consecutiveFailures,
		LastFailureAt:       t.lastFailureAt,
		Backoff:             t.backoff,
		MaxBackoff:          t.maxBackoff,
	}
}
