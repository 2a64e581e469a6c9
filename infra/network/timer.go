package network

import (
	"sync/atomic"
	"time"
)

// deadlineTimer arms a single timeout and races it against whichever side
// finishes first: the timer firing, or the watched operation completing on
// its own. Exactly one side "wins" the race - translating asio_pbrpc's
// chrono_timer.h CAS-guarded expire flag into Go's atomic.Bool, since Go has
// no socket.cancel() to interrupt a blocking Read/Write directly (that role
// is instead played by SetReadDeadline/SetWriteDeadline in connection.go).
type deadlineTimer struct {
	won       atomic.Bool
	timer     *time.Timer
	stopWatch func()
}

// armDeadlineTimer starts a timer that invokes onExpire after d, unless
// cancel() runs first. Passing d <= 0 disables the timer entirely (no
// deadline requested).
func armDeadlineTimer(d time.Duration, onExpire func()) *deadlineTimer {
	t := &deadlineTimer{}
	if d <= 0 {
		return t
	}
	t.timer = time.AfterFunc(d, func() {
		if t.won.CompareAndSwap(false, true) {
			onExpire()
		}
	})
	return t
}

// cancel attempts to win the race on behalf of the operation completing
// normally. It returns true if this call won, meaning the caller is
// responsible for whatever follow-up the "completed normally" path requires;
// it returns false if the timer had already fired first.
func (t *deadlineTimer) cancel() bool {
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.stopWatch != nil {
		t.stopWatch()
	}
	return t.won.CompareAndSwap(false, true)
}

// armDeadlineWatcher is armDeadlineTimer's event-driven sibling: instead of
// racing a fixed duration, it races an arbitrary signal channel (typically a
// context's Done()) against cancel(). Used where the expiry isn't a known
// duration up front, such as a plain (non-deadline) context cancellation.
func armDeadlineWatcher(signal <-chan struct{}, onExpire func()) *deadlineTimer {
	t := &deadlineTimer{}
	if signal == nil {
		return t
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-signal:
			if t.won.CompareAndSwap(false, true) {
				onExpire()
			}
		case <-done:
		}
	}()
	t.stopWatch = func() { close(done) }
	return t
}
