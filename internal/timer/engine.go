// Package timer holds the active-timer core: pure time arithmetic over
// persisted timestamps, the timer lifecycle state machine, the session
// materializer and the 1 Hz display projector. Nothing here keeps a
// ticking counter; elapsed and remaining time are always recomputed
// from the timer's stored fields, so the whole package is restartable
// from a fresh snapshot at any moment.
package timer

import "github.com/arshadumrethi/shadfocus/internal/store"

const msPerSecond = 1000

// Valid reports whether t carries usable timestamp data. An invalid
// timer is treated everywhere as "no active timer", never an error.
func Valid(t *store.ActiveTimer) bool {
	return t != nil && t.StartTime > 0 && t.Mode.Valid()
}

// ElapsedSeconds returns whole seconds of running time, excluding
// paused intervals. While paused the value is frozen at PausedAt.
// Never negative; never clamped above (stopwatch can run unbounded).
func ElapsedSeconds(nowMs int64, t *store.ActiveTimer) int64 {
	if !Valid(t) {
		return 0
	}
	ref := nowMs
	if !t.IsActive {
		if t.PausedAt != nil {
			ref = *t.PausedAt
		}
	}
	elapsedMs := ref - t.StartTime - t.PausedDuration*msPerSecond
	if elapsedMs < 0 {
		return 0
	}
	return elapsedMs / msPerSecond
}

// RemainingSeconds returns the pomodoro countdown, floored at zero.
// A timer missing InitialDuration falls back to fallbackSeconds (the
// user's current default duration); the common path always carries the
// snapshot taken at start.
func RemainingSeconds(nowMs int64, t *store.ActiveTimer, fallbackSeconds int64) int64 {
	if !Valid(t) {
		return 0
	}
	initial := fallbackSeconds
	if t.InitialDuration != nil {
		initial = *t.InitialDuration
	}
	remaining := initial - ElapsedSeconds(nowMs, t)
	if remaining < 0 {
		return 0
	}
	return remaining
}
