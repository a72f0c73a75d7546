package timer

import (
	"testing"

	"github.com/arshadumrethi/shadfocus/internal/store"
)

func ptr(v int64) *int64 { return &v }

// ============================================================
// Validity guard
// ============================================================

func TestValidNilTimer(t *testing.T) {
	if Valid(nil) {
		t.Fatal("nil timer should be invalid")
	}
}

func TestValidMissingStartTime(t *testing.T) {
	tm := &store.ActiveTimer{Mode: store.ModePomodoro, IsActive: true}
	if Valid(tm) {
		t.Fatal("zero start time should be invalid")
	}
}

func TestValidBadMode(t *testing.T) {
	tm := &store.ActiveTimer{Mode: "countdown", IsActive: true, StartTime: 1000}
	if Valid(tm) {
		t.Fatal("unknown mode should be invalid")
	}
}

func TestInvalidTimerComputesZero(t *testing.T) {
	tm := &store.ActiveTimer{Mode: store.ModeStopwatch}
	if got := ElapsedSeconds(99999, tm); got != 0 {
		t.Fatalf("elapsed on invalid timer = %d, want 0", got)
	}
	if got := RemainingSeconds(99999, tm, 1500); got != 0 {
		t.Fatalf("remaining on invalid timer = %d, want 0", got)
	}
}

// ============================================================
// Elapsed
// ============================================================

func TestElapsedWhileActive(t *testing.T) {
	tm := &store.ActiveTimer{
		Mode:      store.ModeStopwatch,
		IsActive:  true,
		StartTime: 10_000,
	}
	if got := ElapsedSeconds(25_500, tm); got != 15 {
		t.Fatalf("elapsed = %d, want 15 (floored)", got)
	}
}

func TestElapsedExcludesPausedDuration(t *testing.T) {
	tm := &store.ActiveTimer{
		Mode:           store.ModeStopwatch,
		IsActive:       true,
		StartTime:      0,
		PausedDuration: 5,
	}
	if got := ElapsedSeconds(25_000, tm); got != 20 {
		t.Fatalf("elapsed = %d, want 20", got)
	}
}

func TestElapsedFrozenWhilePaused(t *testing.T) {
	tm := &store.ActiveTimer{
		Mode:      store.ModeStopwatch,
		IsActive:  false,
		StartTime: 0,
		PausedAt:  ptr(int64(10_000)),
	}
	// Repeated reads at later instants must not move.
	for _, now := range []int64{10_000, 15_000, 60_000, 999_999} {
		if got := ElapsedSeconds(now, tm); got != 10 {
			t.Fatalf("elapsed at now=%d = %d, want frozen 10", now, got)
		}
	}
}

func TestElapsedPausedWithoutPausedAt(t *testing.T) {
	// Degraded data: paused but pausedAt missing falls back to now.
	tm := &store.ActiveTimer{
		Mode:      store.ModeStopwatch,
		IsActive:  false,
		StartTime: 0,
	}
	if got := ElapsedSeconds(7_000, tm); got != 7 {
		t.Fatalf("elapsed = %d, want 7", got)
	}
}

func TestElapsedNeverNegative(t *testing.T) {
	tm := &store.ActiveTimer{
		Mode:           store.ModeStopwatch,
		IsActive:       true,
		StartTime:      10_000,
		PausedDuration: 60,
	}
	if got := ElapsedSeconds(11_000, tm); got != 0 {
		t.Fatalf("elapsed = %d, want clamped 0", got)
	}
}

// ============================================================
// Remaining
// ============================================================

func TestRemainingCountsDown(t *testing.T) {
	tm := &store.ActiveTimer{
		Mode:            store.ModePomodoro,
		IsActive:        true,
		StartTime:       0,
		InitialDuration: ptr(1500),
	}
	if got := RemainingSeconds(100_000, tm, 0); got != 1400 {
		t.Fatalf("remaining = %d, want 1400", got)
	}
}

func TestRemainingFloorsAtZero(t *testing.T) {
	tm := &store.ActiveTimer{
		Mode:            store.ModePomodoro,
		IsActive:        true,
		StartTime:       0,
		InitialDuration: ptr(60),
	}
	if got := RemainingSeconds(120_000, tm, 0); got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
}

func TestRemainingUsesFallbackWhenInitialAbsent(t *testing.T) {
	tm := &store.ActiveTimer{
		Mode:      store.ModePomodoro,
		IsActive:  true,
		StartTime: 0,
	}
	if got := RemainingSeconds(10_000, tm, 1500); got != 1490 {
		t.Fatalf("remaining = %d, want 1490 from fallback", got)
	}
}

func TestStopwatchElapsedUnbounded(t *testing.T) {
	tm := &store.ActiveTimer{
		Mode:      store.ModeStopwatch,
		IsActive:  true,
		StartTime: 0,
	}
	// 30 hours; nothing clamps a stopwatch.
	if got := ElapsedSeconds(108_000_000, tm); got != 108_000 {
		t.Fatalf("elapsed = %d, want 108000", got)
	}
}
