package tui

import "github.com/charmbracelet/lipgloss"

// theme bundles the styles for one palette, picked by the DarkMode
// setting.
type theme struct {
	primary lipgloss.Color

	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style

	panel       lipgloss.Style
	activePanel lipgloss.Style

	timerIdle    lipgloss.Style
	timerRunning lipgloss.Style
	timerPaused  lipgloss.Style

	title     lipgloss.Style
	muted     lipgloss.Style
	success   lipgloss.Style
	warning   lipgloss.Style
	errText   lipgloss.Style
	highlight lipgloss.Style

	header lipgloss.Style
	footer lipgloss.Style

	selectedItem lipgloss.Style
	normalItem   lipgloss.Style
}

func newTheme(dark bool) theme {
	primary := lipgloss.Color("#6C63FF")
	muted := lipgloss.Color("#666666")
	fg := lipgloss.Color("#2A2A3C")
	subtle := lipgloss.Color("#B8B8C8")
	success := lipgloss.Color("#2ECC71")
	warning := lipgloss.Color("#F39C12")
	errCol := lipgloss.Color("#E74C3C")
	highlight := lipgloss.Color("#3B6EA8")

	if dark {
		fg = lipgloss.Color("#C0CAF5")
		subtle = lipgloss.Color("#414868")
		muted = lipgloss.Color("#7C7F96")
		highlight = lipgloss.Color("#7AA2F7")
	}

	return theme{
		primary: primary,

		activeTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(primary).
			Padding(0, 2),
		inactiveTab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),

		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(1, 2),
		activePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2),

		timerIdle: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			Align(lipgloss.Center),
		timerRunning: lipgloss.NewStyle().
			Bold(true).
			Foreground(success).
			Align(lipgloss.Center),
		timerPaused: lipgloss.NewStyle().
			Bold(true).
			Foreground(warning).
			Align(lipgloss.Center),

		title:     lipgloss.NewStyle().Bold(true).Foreground(fg),
		muted:     lipgloss.NewStyle().Foreground(muted),
		success:   lipgloss.NewStyle().Foreground(success),
		warning:   lipgloss.NewStyle().Foreground(warning),
		errText:   lipgloss.NewStyle().Foreground(errCol),
		highlight: lipgloss.NewStyle().Foreground(highlight),

		header: lipgloss.NewStyle().Padding(0, 1),
		footer: lipgloss.NewStyle().Foreground(muted).Padding(0, 1),

		selectedItem: lipgloss.NewStyle().Foreground(primary).Bold(true),
		normalItem:   lipgloss.NewStyle().Foreground(fg),
	}
}

// projectColors is the fixed palette projects may use.
var projectColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}
