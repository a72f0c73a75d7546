package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arshadumrethi/shadfocus/internal/store"
)

// ErrTimerExists is returned by Start when the user already has an
// active timer. The caller is expected to route to Pause/Resume
// instead; this is a contract violation, not a condition to mask.
var ErrTimerExists = errors.New("an active timer already exists")

const metadataDebounce = 500 * time.Millisecond

// Machine owns the lifecycle of a user's single active timer:
// Absent -> Running -> Paused -> Running -> ... -> Absent. Terminal
// transitions (Stop, FinishEarly, AutoComplete) end with the timer
// deleted; FinishEarly and AutoComplete first materialize a Session.
type Machine struct {
	store  *store.Store
	userID string
	now    func() time.Time

	mat  *Materializer
	meta *debouncer

	// onComplete is the best-effort completion cue (bell, status
	// line). It fires after the session is durably recorded and its
	// failure never blocks the save.
	onComplete func()

	mu         sync.Mutex
	completing bool
}

func NewMachine(s *store.Store, userID string) *Machine {
	m := &Machine{
		store:  s,
		userID: userID,
		now:    time.Now,
		mat:    NewMaterializer(s, userID),
	}
	m.meta = newDebouncer(metadataDebounce, m.flushMetadata)
	return m
}

// OnComplete registers the completion cue callback.
func (m *Machine) OnComplete(fn func()) {
	m.onComplete = fn
}

// Close drops any pending debounced metadata write.
func (m *Machine) Close() {
	m.meta.Stop()
}

func (m *Machine) nowMs() int64 {
	return m.now().UnixMilli()
}

// Start creates and persists a new timer. For pomodoro mode the
// current duration setting is snapshotted into InitialDuration so
// later setting changes do not move a running countdown.
func (m *Machine) Start(mode store.TimerMode, project *store.Project, notes, tags string) error {
	existing, err := m.store.GetActiveTimer(m.userID)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if existing != nil {
		return ErrTimerExists
	}

	t := &store.ActiveTimer{
		Mode:      mode,
		IsActive:  true,
		StartTime: m.nowMs(),
		Notes:     notes,
		Tags:      tags,
	}
	if project != nil {
		t.ProjectID = project.ID
		t.ProjectName = project.Name
	}
	if mode == store.ModePomodoro {
		set, err := m.store.GetSettings(m.userID)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		initial := int64(set.TimerDuration) * 60
		t.InitialDuration = &initial
	}
	return m.store.SetActiveTimer(m.userID, t)
}

// Pause freezes the timer at now. PausedDuration is deliberately left
// alone here; it is settled at resume time from the pause gap.
func (m *Machine) Pause() error {
	t, err := m.store.GetActiveTimer(m.userID)
	if err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	if t == nil || !t.IsActive {
		return nil
	}
	pausedAt := m.nowMs()
	inactive := false
	return m.store.PatchActiveTimer(m.userID, store.TimerPatch{
		IsActive: &inactive,
		PausedAt: &pausedAt,
	})
}

// Resume folds the completed pause gap into PausedDuration and clears
// PausedAt. A running timer resumes to a no-op.
func (m *Machine) Resume() error {
	t, err := m.store.GetActiveTimer(m.userID)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	if t == nil || t.PausedAt == nil {
		return nil
	}
	gap := (m.nowMs() - *t.PausedAt) / msPerSecond
	if gap < 0 {
		gap = 0
	}
	total := t.PausedDuration + gap
	active := true
	return m.store.PatchActiveTimer(m.userID, store.TimerPatch{
		IsActive:       &active,
		ClearPausedAt:  true,
		PausedDuration: &total,
	})
}

// ChangeDuration adjusts the duration setting by deltaMinutes, clamped
// to [1,180]. A live pomodoro timer has its target rewritten in place:
// remaining time shifts immediately while StartTime and accumulated
// pause time stay untouched.
func (m *Machine) ChangeDuration(deltaMinutes int) error {
	set, err := m.store.GetSettings(m.userID)
	if err != nil {
		return fmt.Errorf("change duration: %w", err)
	}
	minutes := set.TimerDuration + deltaMinutes
	if minutes < store.MinTimerDuration {
		minutes = store.MinTimerDuration
	}
	if minutes > store.MaxTimerDuration {
		minutes = store.MaxTimerDuration
	}
	set.TimerDuration = minutes
	if err := m.store.UpdateSettings(m.userID, set); err != nil {
		return fmt.Errorf("change duration: %w", err)
	}

	t, err := m.store.GetActiveTimer(m.userID)
	if err != nil {
		return fmt.Errorf("change duration: %w", err)
	}
	if !Valid(t) || t.Mode != store.ModePomodoro {
		return nil
	}
	initial := int64(minutes) * 60
	return m.store.PatchActiveTimer(m.userID, store.TimerPatch{
		InitialDuration: &initial,
	})
}

// UpdateMetadata coalesces rapid notes/tags edits; only the latest
// value reaches the store.
func (m *Machine) UpdateMetadata(notes, tags string) {
	m.meta.Set(metadata{Notes: notes, Tags: tags})
}

// FlushMetadata forces any pending metadata edit through, e.g. before
// a terminal transition.
func (m *Machine) FlushMetadata() {
	m.meta.Flush()
}

func (m *Machine) flushMetadata(v metadata) {
	err := m.store.PatchActiveTimer(m.userID, store.TimerPatch{
		Notes: &v.Notes,
		Tags:  &v.Tags,
	})
	if err != nil {
		// Non-fatal: the next subscription update is authoritative.
		return
	}
}

// FinishEarly ends the timer now and records a session for the time
// actually used. Under one second of use it is a cancel instead: the
// timer is deleted and no session is created.
func (m *Machine) FinishEarly() error {
	m.meta.Flush()
	t, err := m.store.GetActiveTimer(m.userID)
	if err != nil {
		return fmt.Errorf("finish early: %w", err)
	}
	if t == nil {
		return nil
	}
	if !Valid(t) {
		// Unusable timestamp data degrades to "no active timer".
		return m.store.DeleteActiveTimer(m.userID)
	}

	dur := m.usedSeconds(t)
	if dur <= 1 {
		return m.store.DeleteActiveTimer(m.userID)
	}
	if _, err := m.mat.Materialize(t, &dur); err != nil {
		return fmt.Errorf("finish early: %w", err)
	}
	// The timer is deleted only after the session write succeeded.
	return m.store.DeleteActiveTimer(m.userID)
}

// AutoComplete fires when a running pomodoro's remaining time reaches
// zero. The session is credited the full nominal duration rather than
// recomputed elapsed time, avoiding sub-second drift. Guarded so a
// single timer instance materializes exactly one session even if the
// zero reading is observed again before deletion propagates.
func (m *Machine) AutoComplete() error {
	m.mu.Lock()
	if m.completing {
		m.mu.Unlock()
		return nil
	}
	m.completing = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.completing = false
		m.mu.Unlock()
	}()

	// A metadata edit still sitting in the debounce window belongs to
	// this timer; land it before the session is cut.
	m.meta.Flush()

	t, err := m.store.GetActiveTimer(m.userID)
	if err != nil {
		return fmt.Errorf("auto complete: %w", err)
	}
	if !Valid(t) || t.Mode != store.ModePomodoro || !t.IsActive {
		return nil
	}
	fallback, err := m.fallbackSeconds()
	if err != nil {
		return fmt.Errorf("auto complete: %w", err)
	}
	if RemainingSeconds(m.nowMs(), t, fallback) > 0 {
		return nil
	}

	dur := fallback
	if t.InitialDuration != nil {
		dur = *t.InitialDuration
	}
	if _, err := m.mat.Materialize(t, &dur); err != nil {
		return fmt.Errorf("auto complete: %w", err)
	}
	if err := m.store.DeleteActiveTimer(m.userID); err != nil {
		return fmt.Errorf("auto complete: %w", err)
	}
	if m.onComplete != nil {
		m.onComplete()
	}
	return nil
}

// Stop discards the timer outright, if any. No session is created.
func (m *Machine) Stop() error {
	m.meta.Stop()
	return m.store.DeleteActiveTimer(m.userID)
}

// SwitchMode abandons the current timer when the mode differs.
// Switching modes discards, never auto-saves.
func (m *Machine) SwitchMode(mode store.TimerMode) error {
	t, err := m.store.GetActiveTimer(m.userID)
	if err != nil {
		return fmt.Errorf("switch mode: %w", err)
	}
	if t == nil || t.Mode == mode {
		return nil
	}
	return m.Stop()
}

// usedSeconds is the duration credited by FinishEarly: for pomodoro
// the consumed part of the target, for stopwatch the raw elapsed time.
func (m *Machine) usedSeconds(t *store.ActiveTimer) int64 {
	nowMs := m.nowMs()
	if t.Mode == store.ModeStopwatch {
		return ElapsedSeconds(nowMs, t)
	}
	fallback, err := m.fallbackSeconds()
	if err != nil {
		fallback = int64(store.DefaultTimerDuration) * 60
	}
	initial := fallback
	if t.InitialDuration != nil {
		initial = *t.InitialDuration
	}
	return initial - RemainingSeconds(nowMs, t, fallback)
}

func (m *Machine) fallbackSeconds() (int64, error) {
	set, err := m.store.GetSettings(m.userID)
	if err != nil {
		return 0, err
	}
	return int64(set.TimerDuration) * 60, nil
}
