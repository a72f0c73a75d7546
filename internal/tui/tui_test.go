package tui

import (
	"testing"
	"time"

	"github.com/arshadumrethi/shadfocus/internal/store"
	"github.com/arshadumrethi/shadfocus/internal/timer"
)

// ============================================================================
// Formatting
// ============================================================================

func TestFormatClock(t *testing.T) {
	cases := []struct {
		secs int64
		want string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{1500, "25:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{36000, "10:00:00"},
	}
	for _, c := range cases {
		if got := formatClock(c.secs); got != c.want {
			t.Errorf("formatClock(%d) = %q, want %q", c.secs, got, c.want)
		}
	}
}

func TestFormatDurationWords(t *testing.T) {
	cases := []struct {
		secs int64
		want string
	}{
		{0, "<1m"},
		{59, "<1m"},
		{60, "1m"},
		{119, "1m"},
		{1500, "25m"},
		{3600, "1h 0m"},
		{5400, "1h 30m"},
		{7260, "2h 1m"},
	}
	for _, c := range cases {
		if got := formatDurationWords(c.secs); got != c.want {
			t.Errorf("formatDurationWords(%d) = %q, want %q", c.secs, got, c.want)
		}
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 24, "short"},
		{"exactly-twenty-four-char", 24, "exactly-twenty-four-char"},
		{"this line is definitely longer", 24, "this line is definite..."},
		{"héllo wörld with accénts överflowing", 24, "héllo wörld with accé..."},
		{"日本語のメモはマルチバイトでとても長い場合がある", 10, "日本語のメモは..."},
	}
	for _, c := range cases {
		got := truncate(c.in, c.n)
		if got != c.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.n, got, c.want)
		}
		if r := []rune(got); len(r) > c.n {
			t.Errorf("truncate(%q, %d) is %d runes", c.in, c.n, len(r))
		}
	}
}

// ============================================================================
// View models
// ============================================================================

func TestHistoryCursorClampsOnShrink(t *testing.T) {
	h := newHistoryModel(nil, "u1")
	h.sessions = []store.Session{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	h.cursor = 2

	h, _ = h.update(sessionsMsg{sessions: []store.Session{{ID: "a"}}})
	if h.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after list shrank to one", h.cursor)
	}

	h, _ = h.update(sessionsMsg{sessions: nil})
	if h.cursor != 0 {
		t.Errorf("cursor = %d, want 0 on empty list", h.cursor)
	}
}

func TestProjectsCursorClampsOnShrink(t *testing.T) {
	p := newProjectsModel(nil, "u1")
	p.projects = []store.Project{{ID: "a"}, {ID: "b"}}
	p.cursor = 1

	p, _ = p.update(projectsMsg{projects: []store.Project{{ID: "a"}}})
	if p.cursor != 0 {
		t.Errorf("cursor = %d, want 0", p.cursor)
	}
}

func TestTimerModelFollowsDisplay(t *testing.T) {
	m := newTimerModel(nil)
	if m.mode != store.ModePomodoro {
		t.Fatalf("initial mode = %q, want pomodoro", m.mode)
	}

	m, _ = m.update(displayMsg{display: timer.Display{
		Present: true,
		Mode:    store.ModeStopwatch,
		Running: true,
		Seconds: 42,
	}})
	if !m.display.Present || m.display.Seconds != 42 {
		t.Fatalf("display not applied: %+v", m.display)
	}
	if m.mode != store.ModeStopwatch {
		t.Errorf("mode should track the live timer, got %q", m.mode)
	}

	// Absence keeps the last selected mode for the idle readout.
	m, _ = m.update(displayMsg{display: timer.Display{}})
	if m.display.Present {
		t.Error("display should be absent")
	}
	if m.mode != store.ModeStopwatch {
		t.Errorf("mode = %q, want stopwatch retained after timer ended", m.mode)
	}
}

func TestHistoryTodayTotalFromStore(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UnixMilli()

	sessions := []store.Session{
		{ID: "today-1", EndTime: now.UnixMilli(), Duration: 1500},
		{ID: "today-2", EndTime: midnight, Duration: 300},
		{ID: "yesterday", EndTime: midnight - 1, Duration: 999},
	}
	for i := range sessions {
		if err := s.CreateSession("u1", &sessions[i]); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.CreateSession("u2", &store.Session{ID: "other", EndTime: now.UnixMilli(), Duration: 7}); err != nil {
		t.Fatal(err)
	}

	h := newHistoryModel(s, "u1")
	if got := h.todayTotal(); got != 1800 {
		t.Fatalf("todayTotal = %d, want 1800 (today's sessions only)", got)
	}
}

func TestAppStatusErrorFlag(t *testing.T) {
	a := NewApp(nil, nil, "u1", nil)

	model, _ := a.Update(statusMsg{text: "Error: boom", isError: true})
	a = model.(App)
	if !a.statusErr {
		t.Fatal("error status should be flagged for the error style")
	}

	model, _ = a.Update(exportDoneMsg{path: "/tmp/x.csv"})
	a = model.(App)
	if a.statusErr {
		t.Fatal("ordinary status should clear the error flag")
	}
}

func TestAppRoutesSettingsToTheme(t *testing.T) {
	a := NewApp(nil, nil, "u1", nil)

	model, _ := a.Update(settingsMsg{settings: &store.Settings{TimerDuration: 25, DarkMode: true}})
	a = model.(App)

	want := newTheme(true).muted.GetForeground()
	if a.theme.muted.GetForeground() != want {
		t.Error("theme should be rebuilt from the settings push")
	}
	if a.settings.settings == nil || !a.settings.settings.DarkMode {
		t.Error("settings view should receive the snapshot")
	}
}
