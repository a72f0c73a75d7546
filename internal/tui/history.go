package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/arshadumrethi/shadfocus/internal/export"
	"github.com/arshadumrethi/shadfocus/internal/store"
)

// historyModel lists past sessions, newest first, straight off the
// sessions subscription feed.
type historyModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	sessions []store.Session
	cursor   int

	formActive bool
	form       *huh.Form
	editingID  string

	formNotes *string
	formTags  *string
}

func newHistoryModel(s *store.Store, userID string) historyModel {
	notes, tags := "", ""
	return historyModel{
		store:     s,
		userID:    userID,
		formNotes: &notes,
		formTags:  &tags,
	}
}

func (h *historyModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case sessionsMsg:
		h.sessions = msg.sessions
		if h.cursor >= len(h.sessions) {
			h.cursor = max(0, len(h.sessions)-1)
		}
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.sessions)-1 {
				h.cursor++
			}
		case key.Matches(msg, keys.Edit):
			if len(h.sessions) > 0 {
				return h.showEditForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(h.sessions) > 0 {
				sess := h.sessions[h.cursor]
				if err := h.store.DeleteSession(h.userID, sess.ID); err != nil {
					return h, errStatus(err)
				}
				return h, status("Session deleted")
			}
		case key.Matches(msg, keys.CSV):
			return h, h.doExport("csv")
		case key.Matches(msg, keys.JSON):
			return h, h.doExport("json")
		}
	}
	return h, nil
}

func (h historyModel) showEditForm() (historyModel, tea.Cmd) {
	sess := h.sessions[h.cursor]
	h.editingID = sess.ID
	*h.formNotes = sess.Notes
	*h.formTags = sess.Tags

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Notes").Value(h.formNotes),
			huh.NewInput().Title("Tags (comma-separated)").Value(h.formTags),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h historyModel) updateForm(msg tea.Msg) (historyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			h.formActive = false
			h.form = nil
			return h, nil
		}
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		sess, err := h.store.GetSession(h.userID, h.editingID)
		if err != nil {
			return h, errStatus(err)
		}
		if sess == nil {
			return h, status("Session no longer exists")
		}
		sess.Notes = *h.formNotes
		sess.Tags = *h.formTags
		if err := h.store.UpdateSession(h.userID, sess); err != nil {
			return h, errStatus(err)
		}
		return h, status("Session updated")
	}
	return h, cmd
}

func (h historyModel) doExport(format string) tea.Cmd {
	sessions := h.sessions
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		path := filepath.Join(home, fmt.Sprintf("shadfocus-export-%s.%s", dateStr, format))
		var err error
		if format == "csv" {
			err = export.ToCSV(sessions, path)
		} else {
			err = export.ToJSON(sessions, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (h historyModel) view(th theme) string {
	w := h.width - 4

	if h.formActive && h.form != nil {
		title := th.title.Render("Edit Session")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", h.form.View())
		return th.activePanel.Width(w).Render(content)
	}

	title := th.title.Render("History")

	if len(h.sessions) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			th.muted.Render("No sessions yet. Finish a timer to record one."),
		)
		return th.panel.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title+th.muted.Render(fmt.Sprintf("  today %s", formatDurationWords(h.todayTotal()))))
	rows = append(rows, "")

	header := th.muted.Render(fmt.Sprintf("  %-3s %-20s %-8s %-16s %s", "", "Project", "Length", "Ended", "Notes"))
	rows = append(rows, header)

	visible := h.sessions
	if limit := h.height - 8; limit > 0 && len(visible) > limit {
		visible = visible[:limit]
	}
	for i, sess := range visible {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(sess.Color)).Render("●")
		cursor := "  "
		style := th.normalItem
		if i == h.cursor {
			cursor = "> "
			style = th.selectedItem
		}
		ended := time.UnixMilli(sess.EndTime).Local().Format("Jan 2 15:04")
		notes := truncate(sess.Notes, 24)
		row := style.Render(fmt.Sprintf("%s%s %-20s %-8s %-16s", cursor, colorDot, sess.ProjectName, formatDurationWords(sess.Duration), ended))
		if notes != "" {
			row += th.muted.Render(" " + notes)
		}
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, th.muted.Render("  e: edit  d: delete  c: export csv  J: export json"))

	return th.panel.Width(w).Render(strings.Join(rows, "\n"))
}

// todayTotal sums durations of sessions that ended since local
// midnight. The upper bound is exclusive, so nudge it past now.
func (h historyModel) todayTotal() int64 {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UnixMilli()
	total, err := h.store.SumDurations(h.userID, midnight, now.UnixMilli()+1)
	if err != nil {
		return 0
	}
	return total
}
