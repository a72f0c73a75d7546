package tui

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arshadumrethi/shadfocus/internal/store"
	"github.com/arshadumrethi/shadfocus/internal/timer"
)

// Run wires the machine, projector and store subscriptions to a Bubble
// Tea program and blocks until the user quits. All pushes funnel into
// one buffered channel that the app drains with a re-arming command.
func Run(s *store.Store, userID string) error {
	feed := make(chan tea.Msg, 16)

	machine := timer.NewMachine(s, userID)
	defer machine.Close()

	machine.OnComplete(func() {
		feed <- completionMsg{}
	})

	projector := timer.NewProjector(s, userID,
		func(d timer.Display) {
			feed <- displayMsg{display: d}
		},
		func() {
			if err := machine.AutoComplete(); err != nil {
				log.Printf("auto-complete: %v", err)
			}
		},
	)

	unsubProjects := s.SubscribeProjects(userID, func(projects []store.Project) {
		feed <- projectsMsg{projects: projects}
	})
	defer unsubProjects()

	unsubSessions := s.SubscribeSessions(userID, func(sessions []store.Session) {
		feed <- sessionsMsg{sessions: sessions}
	})
	defer unsubSessions()

	unsubSettings := s.SubscribeSettings(userID, func(set *store.Settings) {
		feed <- settingsMsg{settings: set}
	})
	defer unsubSettings()

	projector.Run()
	defer projector.Close()

	app := NewApp(s, machine, userID, feed)
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
