package session

import "time"

// Scheduler defers work for timed dialogue effects: opening-message
// presentation delays, response pre-delays, and auto-advance. Schedule must
// never invoke fn synchronously; the returned cancel stops a pending fire.
// The runner guards every scheduled callback with its generation counter, so
// a timer outliving its session is a no-op rather than a mutation of
// torn-down state.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler is the production scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

// Schedule arms a one-shot timer.
func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
