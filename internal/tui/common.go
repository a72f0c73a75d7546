package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arshadumrethi/shadfocus/internal/store"
	"github.com/arshadumrethi/shadfocus/internal/timer"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewHistory
	viewProjects
	viewSettings
)

var viewNames = []string{"Timer", "History", "Projects", "Settings"}

// --- Messages ---
//
// Everything authoritative arrives as a push: the projector publishes
// displayMsg at 1 Hz, the store subscriptions publish the entity
// feeds. The TUI never owns timer state.

type displayMsg struct {
	display timer.Display
}

type completionMsg struct{}

type projectsMsg struct {
	projects []store.Project
}

type sessionsMsg struct {
	sessions []store.Session
}

type settingsMsg struct {
	settings *store.Settings
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// listen re-arms the external message feed after each delivery.
func listen(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// --- Helpers ---

// formatClock renders seconds as MM:SS, growing to H:MM:SS past an hour.
func formatClock(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// truncate shortens s to at most n runes, marking the cut with "...".
// Slicing on runes keeps multibyte characters intact.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// formatDurationWords renders a duration for list rows. Values under a
// minute read "<1m"; under an hour "Xm"; otherwise "Xh Ym".
func formatDurationWords(secs int64) string {
	if secs < 60 {
		return "<1m"
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
