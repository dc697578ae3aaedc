package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_StartsClosed(t *testing.T) {
	tr := NewTracker("gemini")

	assert.True(t, tr.Available())
	snap := tr.Snapshot()
	assert.Equal(t, "gemini", snap.Provider)
	assert.Equal(t, 0, snap.ConsecutiveFailures)
	assert.Equal(t, BaseBackoff, snap.Backoff)
}

func TestTracker_OpensAtFailureThreshold(t *testing.T) {
	tr := NewTracker("gemini")
	now := time.Now()

	tr.RecordFailure(now)
	tr.RecordFailure(now)
	assert.True(t, tr.Available(), "below threshold should stay closed")

	tr.RecordFailure(now)
	assert.False(t, tr.Available(), "third consecutive failure opens the circuit")

	snap := tr.Snapshot()
	assert.Equal(t, 3, snap.ConsecutiveFailures)
	assert.Equal(t, 2*BaseBackoff, snap.Backoff, "backoff doubles on open")
}

func TestTracker_BackoffMonotonicUnderFailures(t *testing.T) {
	tr := NewTracker("openai")
	now := time.Now()

	prev := tr.Snapshot().Backoff
	for i := 0; i < 12; i++ {
		tr.RecordFailure(now)
		cur := tr.Snapshot().Backoff
		assert.GreaterOrEqual(t, cur, prev, "backoff never decreases under failures")
		assert.LessOrEqual(t, cur, MaxBackoff, "backoff never exceeds the cap")
		prev = cur
	}
	assert.Equal(t, MaxBackoff, tr.Snapshot().Backoff)
}

func TestTracker_SuccessStreakClosesAndHalvesBackoff(t *testing.T) {
	tr := NewTracker("anthropic")
	now := time.Now()

	for i := 0; i < 3; i++ {
		tr.RecordFailure(now)
	}
	require.False(t, tr.Available())
	openBackoff := tr.Snapshot().Backoff

	// Three successes walk failures back to zero and close the circuit.
	tr.RecordSuccess()
	tr.RecordSuccess()
	assert.False(t, tr.Available())
	tr.RecordSuccess()
	assert.True(t, tr.Available())

	snap := tr.Snapshot()
	assert.Equal(t, 0, snap.ConsecutiveFailures)
	assert.LessOrEqual(t, snap.Backoff, openBackoff, "backoff shrinks after recovery")
	assert.GreaterOrEqual(t, snap.Backoff, BaseBackoff, "backoff is floored at base")
}

func TestTracker_RecoveryProbe(t *testing.T) {
	tr := NewTracker("gemini")
	failedAt := time.Now()

	for i := 0; i < 3; i++ {
		tr.RecordFailure(failedAt)
	}
	require.False(t, tr.Available())
	backoffAtOpen := tr.Snapshot().Backoff

	// Not yet past the backoff window.
	assert.False(t, tr.ShouldAttemptRecovery(failedAt.Add(backoffAtOpen)))
	assert.False(t, tr.Available())

	// Past the window: one optimistic probe is allowed.
	probeAt := failedAt.Add(backoffAtOpen + time.Second)
	assert.True(t, tr.ShouldAttemptRecovery(probeAt))
	assert.True(t, tr.Available())

	snap := tr.Snapshot()
	assert.Equal(t, 1, snap.ConsecutiveFailures, "probe decrements failures by two")
	expected := time.Duration(float64(backoffAtOpen) * 1.5)
	assert.Equal(t, expected, snap.Backoff, "probe dampens backoff by 1.5x")
}

func TestTracker_Eligible(t *testing.T) {
	tr := NewTracker("gemini")
	now := time.Now()

	assert.True(t, tr.Eligible(now), "closed circuit is always eligible")

	for i := 0; i < 3; i++ {
		tr.RecordFailure(now)
	}
	assert.False(t, tr.Eligible(now.Add(time.Second)), "open and not due")
	assert.True(t, tr.Eligible(now.Add(time.Hour)), "open but due for a probe")
}

func TestTracker_SuccessFloorsAtZero(t *testing.T) {
	tr := NewTracker("gemini")

	tr.RecordSuccess()
	tr.RecordSuccess()
	assert.Equal(t, 0, tr.Snapshot().ConsecutiveFailures)
	assert.True(t, tr.Available())
}
