package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/arshadumrethi/shadfocus/internal/store"
)

type projectsModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	projects []store.Project
	cursor   int

	formActive bool
	form       *huh.Form
	formType   string // "project", "edit_project"

	// Form field pointers (survive value copies)
	formName  *string
	formColor *string

	editingID string
}

func newProjectsModel(s *store.Store, userID string) projectsModel {
	name, color := "", projectColors[0]
	return projectsModel{
		store:     s,
		userID:    userID,
		formName:  &name,
		formColor: &color,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsMsg:
		p.projects = msg.projects
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.projects)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.New):
			return p.showNewForm()
		case key.Matches(msg, keys.Edit):
			if len(p.projects) > 0 {
				return p.showEditForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(p.projects) > 0 {
				proj := p.projects[p.cursor]
				err := p.store.DeleteProject(p.userID, proj.ID)
				if errors.Is(err, store.ErrLastProject) {
					return p, status("Keep at least one project")
				}
				if err != nil {
					return p, errStatus(err)
				}
				return p, status("Project deleted — past sessions keep its name")
			}
		}
	}
	return p, nil
}

func colorOptions() []huh.Option[string] {
	options := make([]huh.Option[string], len(projectColors))
	for i, c := range projectColors {
		options[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}
	return options
}

func (p projectsModel) showNewForm() (projectsModel, tea.Cmd) {
	*p.formName = ""
	*p.formColor = projectColors[0]
	p.formType = "project"

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(p.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions()...).Value(p.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showEditForm() (projectsModel, tea.Cmd) {
	proj := p.projects[p.cursor]
	*p.formName = proj.Name
	*p.formColor = proj.Color
	p.formType = "edit_project"
	p.editingID = proj.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(p.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions()...).Value(p.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		if *p.formName == "" {
			return p, nil
		}
		switch p.formType {
		case "project":
			if _, err := p.store.AddProject(p.userID, *p.formName, *p.formColor); err != nil {
				return p, errStatus(err)
			}
		case "edit_project":
			if err := p.store.UpdateProject(p.userID, p.editingID, *p.formName, *p.formColor); err != nil {
				return p, errStatus(err)
			}
		}
	}
	return p, cmd
}

func (p projectsModel) view(th theme) string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		title := th.title.Render("New Project")
		if p.formType == "edit_project" {
			title = th.title.Render("Edit Project")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return th.activePanel.Width(w).Render(content)
	}

	title := th.title.Render("Projects")

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			th.muted.Render("No projects yet. Press n to create one."),
		)
		return th.panel.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, proj := range p.projects {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(proj.Color)).Render("●")
		cursor := "  "
		style := th.normalItem
		if i == p.cursor {
			cursor = "> "
			style = th.selectedItem
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, colorDot, proj.Name)))
	}

	rows = append(rows, "")
	rows = append(rows, th.muted.Render("  n: new  e: edit  d: delete"))

	return th.panel.Width(w).Render(strings.Join(rows, "\n"))
}
