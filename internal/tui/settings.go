package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/arshadumrethi/shadfocus/internal/store"
	"github.com/arshadumrethi/shadfocus/internal/timer"
)

type settingsModel struct {
	store   *store.Store
	machine *timer.Machine
	userID  string
	width   int
	height  int

	settings *store.Settings

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formDuration *string
	formDark     *bool
}

func newSettingsModel(s *store.Store, m *timer.Machine, userID string) settingsModel {
	duration := ""
	dark := false
	return settingsModel{
		store:        s,
		machine:      m,
		userID:       userID,
		formDuration: &duration,
		formDark:     &dark,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	if s.settings == nil {
		return s, nil
	}
	*s.formDuration = strconv.Itoa(s.settings.TimerDuration)
	*s.formDark = s.settings.DarkMode

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Pomodoro duration (minutes)").
				Value(s.formDuration).
				Validate(func(v string) error {
					n, err := strconv.Atoi(v)
					if err != nil {
						return fmt.Errorf("not a number")
					}
					if n < store.MinTimerDuration || n > store.MaxTimerDuration {
						return fmt.Errorf("must be %d-%d", store.MinTimerDuration, store.MaxTimerDuration)
					}
					return nil
				}),
			huh.NewConfirm().Title("Dark mode").Value(s.formDark),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		minutes, err := strconv.Atoi(*s.formDuration)
		if err != nil {
			return s, errStatus(err)
		}
		// Route the duration change through the machine so a live
		// pomodoro timer has its target rewritten too.
		if delta := minutes - s.settings.TimerDuration; delta != 0 {
			if err := s.machine.ChangeDuration(delta); err != nil {
				return s, errStatus(err)
			}
		}
		if *s.formDark != s.settings.DarkMode {
			if err := s.store.UpdateSettings(s.userID, &store.Settings{
				TimerDuration: minutes,
				DarkMode:      *s.formDark,
			}); err != nil {
				return s, errStatus(err)
			}
		}
		return s, status("Settings saved")
	}
	return s, cmd
}

func (s settingsModel) view(th theme) string {
	w := s.width - 4
	title := th.title.Render("Settings")

	if s.formActive && s.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View())
		return th.activePanel.Width(w).Render(content)
	}

	if s.settings == nil {
		return th.panel.Width(w).Render(title + "\n\n" + th.muted.Render("Loading..."))
	}

	dark := "off"
	if s.settings.DarkMode {
		dark = "on"
	}
	rows := []string{
		title,
		"",
		fmt.Sprintf("  Pomodoro duration   %s", th.highlight.Render(fmt.Sprintf("%d min", s.settings.TimerDuration))),
		fmt.Sprintf("  Dark mode           %s", th.highlight.Render(dark)),
		"",
		th.muted.Render("  enter: edit"),
	}
	return th.panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
