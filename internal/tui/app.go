package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arshadumrethi/shadfocus/internal/store"
	"github.com/arshadumrethi/shadfocus/internal/timer"
)

// App is the root Bubble Tea model. Authoritative state arrives over
// the feed channel (projector displays, store subscription snapshots);
// the app only routes and renders.
type App struct {
	feed   <-chan tea.Msg
	width  int
	height int

	activeView viewState
	showHelp   bool
	theme      theme

	timerView timerModel
	history   historyModel
	projects  projectsModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(s *store.Store, m *timer.Machine, userID string, feed <-chan tea.Msg) App {
	h := help.New()
	h.ShowAll = false

	return App{
		feed:       feed,
		activeView: viewTimer,
		theme:      newTheme(false),
		timerView:  newTimerModel(m),
		history:    newHistoryModel(s, userID),
		projects:   newProjectsModel(s, userID),
		settings:   newSettingsModel(s, m, userID),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return listen(a.feed)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timerView.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHistory
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewProjects
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 4
			return a, nil
		}
		return a.updateActiveView(msg)

	case displayMsg:
		var cmd tea.Cmd
		a.timerView, cmd = a.timerView.update(msg)
		return a, tea.Batch(cmd, listen(a.feed))

	case completionMsg:
		// Best-effort cue: terminal bell plus a status line.
		a.status = "Pomodoro complete! \a"
		a.statusErr = false
		return a, listen(a.feed)

	case projectsMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.projects, cmd = a.projects.update(msg)
		cmds = append(cmds, cmd)
		a.timerView, cmd = a.timerView.update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, listen(a.feed))
		return a, tea.Batch(cmds...)

	case sessionsMsg:
		var cmd tea.Cmd
		a.history, cmd = a.history.update(msg)
		return a, tea.Batch(cmd, listen(a.feed))

	case settingsMsg:
		if msg.settings != nil {
			a.theme = newTheme(msg.settings.DarkMode)
		}
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, tea.Batch(cmd, listen(a.feed))

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.timerView, cmd = a.timerView.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTimer:
		return a.timerView.formActive
	case viewHistory:
		return a.history.formActive
	case viewProjects:
		return a.projects.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.timerView.view(a.theme)
	case viewHistory:
		content = a.history.view(a.theme)
	case viewProjects:
		content = a.projects.view(a.theme)
	case viewSettings:
		content = a.settings.view(a.theme)
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, a.theme.activeTab.Render(name))
		} else {
			tabs = append(tabs, a.theme.inactiveTab.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(a.theme.primary).Render("shadfocus")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return a.theme.header.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := a.theme.muted
		if a.statusErr {
			style = a.theme.errText
		}
		status = style.Render(" " + a.status)
	}

	// Timer indicator in footer
	timerInfo := ""
	if d := a.timerView.display; d.Present {
		clock := formatClock(d.Seconds)
		if d.Running {
			timerInfo = a.theme.success.Render(" ● " + clock)
		} else {
			timerInfo = a.theme.warning.Render(" ⏸ " + clock)
		}
	}

	left := a.theme.footer.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
