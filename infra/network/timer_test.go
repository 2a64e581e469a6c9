package network

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeadlineTimerCancelWinsBeforeExpiry(t *testing.T) {
	fired := false
	timer := armDeadlineTimer(time.Hour, func() { fired = true })
	require.True(t, timer.cancel())
	require.False(t, fired)

	// A second cancel (simulating a racing completion) must not re-win.
	require.False(t, timer.cancel())
}

func TestDeadlineTimerExpiryWinsBeforeCancel(t *testing.T) {
	fired := make(chan struct{})
	timer := armDeadlineTimer(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	// By the time it already fired, a late cancel must report it lost the race.
	require.False(t, timer.cancel())
}

func TestDeadlineTimerDisabledWhenDurationNonPositive(t *testing.T) {
	fired := false
	timer := armDeadlineTimer(0, func() { fired = true })
	time.Sleep(20 * time.Millisecond)
	require.False(t, fired)
	require.True(t, timer.cancel())
}
