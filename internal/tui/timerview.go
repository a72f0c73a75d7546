package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/arshadumrethi/shadfocus/internal/store"
	"github.com/arshadumrethi/shadfocus/internal/timer"
)

// timerModel renders the projector's Display feed and routes key
// presses to the state machine. It never computes time itself.
type timerModel struct {
	machine *timer.Machine
	width   int
	height  int

	display  timer.Display
	mode     store.TimerMode // selected mode while idle
	projects []store.Project

	formActive bool
	form       *huh.Form
	formType   string // "start", "metadata"

	// Form field pointers (survive value copies)
	formProject *string
	formNotes   *string
	formTags    *string
}

func newTimerModel(m *timer.Machine) timerModel {
	project, notes, tags := "", "", ""
	return timerModel{
		machine:     m,
		mode:        store.ModePomodoro,
		formProject: &project,
		formNotes:   &notes,
		formTags:    &tags,
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case displayMsg:
		t.display = msg.display
		if t.display.Present {
			t.mode = t.display.Mode
		}
		return t, nil

	case projectsMsg:
		t.projects = msg.projects
		return t, nil

	case tea.KeyMsg:
		return t.updateKeys(msg)
	}
	return t, nil
}

func (t timerModel) updateKeys(msg tea.KeyMsg) (timerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Start):
		if t.display.Present {
			return t, status("A timer is already running — space pauses, f finishes")
		}
		if len(t.projects) == 0 {
			return t, status("Create a project first (tab 3)")
		}
		return t.showStartForm()

	case key.Matches(msg, keys.Toggle):
		if !t.display.Present {
			return t, nil
		}
		if t.display.Running {
			if err := t.machine.Pause(); err != nil {
				return t, errStatus(err)
			}
			return t, status("Paused")
		}
		if err := t.machine.Resume(); err != nil {
			return t, errStatus(err)
		}
		return t, status("Resumed")

	case key.Matches(msg, keys.Finish):
		if !t.display.Present {
			return t, nil
		}
		if err := t.machine.FinishEarly(); err != nil {
			return t, errStatus(err)
		}
		return t, status("Timer finished")

	case key.Matches(msg, keys.Discard):
		if !t.display.Present {
			return t, nil
		}
		if err := t.machine.Stop(); err != nil {
			return t, errStatus(err)
		}
		return t, status("Timer discarded")

	case key.Matches(msg, keys.Mode):
		next := store.ModeStopwatch
		if t.mode == store.ModeStopwatch {
			next = store.ModePomodoro
		}
		// Switching modes abandons the current timer.
		if err := t.machine.SwitchMode(next); err != nil {
			return t, errStatus(err)
		}
		t.mode = next
		return t, status(fmt.Sprintf("Mode: %s", next))

	case key.Matches(msg, keys.Longer):
		if err := t.machine.ChangeDuration(1); err != nil {
			return t, errStatus(err)
		}
		return t, nil

	case key.Matches(msg, keys.Shorter):
		if err := t.machine.ChangeDuration(-1); err != nil {
			return t, errStatus(err)
		}
		return t, nil

	case key.Matches(msg, keys.Edit):
		if !t.display.Present {
			return t, nil
		}
		return t.showMetadataForm()
	}
	return t, nil
}

func (t timerModel) showStartForm() (timerModel, tea.Cmd) {
	*t.formProject = t.projects[0].ID
	*t.formNotes = ""
	*t.formTags = ""
	t.formType = "start"

	options := make([]huh.Option[string], len(t.projects))
	for i, p := range t.projects {
		options[i] = huh.NewOption(p.Name, p.ID)
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Project").Options(options...).Value(t.formProject),
			huh.NewInput().Title("Notes").Value(t.formNotes),
			huh.NewInput().Title("Tags (comma-separated)").Value(t.formTags),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t timerModel) showMetadataForm() (timerModel, tea.Cmd) {
	t.formType = "metadata"

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Notes").Value(t.formNotes),
			huh.NewInput().Title("Tags (comma-separated)").Value(t.formTags),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t timerModel) updateForm(msg tea.Msg) (timerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		switch t.formType {
		case "start":
			var project *store.Project
			for i := range t.projects {
				if t.projects[i].ID == *t.formProject {
					project = &t.projects[i]
					break
				}
			}
			if err := t.machine.Start(t.mode, project, *t.formNotes, *t.formTags); err != nil {
				return t, errStatus(err)
			}
			return t, status("Timer started")
		case "metadata":
			t.machine.UpdateMetadata(*t.formNotes, *t.formTags)
			return t, nil
		}
	}
	return t, cmd
}

func (t timerModel) view(th theme) string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := th.title.Render("Start Timer")
		if t.formType == "metadata" {
			title = th.title.Render("Notes & Tags")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View())
		return th.activePanel.Width(w).Render(content)
	}

	modeLabel := "Pomodoro"
	if t.mode == store.ModeStopwatch {
		modeLabel = "Stopwatch"
	}
	title := th.title.Render(modeLabel)

	var readout, state string
	switch {
	case !t.display.Present:
		secs := int64(0)
		if t.mode == store.ModePomodoro {
			secs = t.display.DefaultSeconds
		}
		readout = th.timerIdle.Width(w - 6).Render(formatClock(secs))
		state = th.muted.Render("Press s to start")
	case t.display.Running:
		readout = th.timerRunning.Width(w - 6).Render(formatClock(t.display.Seconds))
		state = th.success.Render("● " + t.display.ProjectName)
	default:
		readout = th.timerPaused.Width(w - 6).Render(formatClock(t.display.Seconds))
		state = th.warning.Render("⏸ " + t.display.ProjectName)
	}

	var controls string
	if t.display.Present {
		controls = th.muted.Render("space: pause/resume  f: finish  x: discard  e: notes  +/-: duration")
	} else {
		controls = th.muted.Render("s: start  m: mode  +/-: duration")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		readout,
		state,
		"",
		controls,
	)
	return th.panel.Width(w).Render(content)
}

func status(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}
