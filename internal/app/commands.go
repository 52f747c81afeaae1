package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/ui/command"
	"github.com/nhle/inbox/internal/ui/confirm"
)

// executeCommand runs a parsed command palette line.
func (m Model) executeCommand(c command.Command) (tea.Model, tea.Cmd) {
	switch c.Name {
	case command.Refresh:
		return m, m.refresh()

	case command.Folder:
		return m, m.changeFolder(model.Folder(c.Arg))

	case command.Label:
		folder, ok := m.folders.Find(c.Arg)
		if !ok {
			return m, m.notify(fmt.Sprintf("No label named %q", c.Arg), model.NotificationError)
		}
		return m, m.changeFolder(folder)

	case command.Logout:
		m.confirmView = confirm.New(
			confirmLogout,
			"Log out?",
			"The stored session is removed from this machine.",
			"Log out",
			m.layout.ContentWidth(),
		)
		m.currentView = ViewConfirm
		return m, m.confirmView.Init()

	case command.Help:
		m.showHelp()
		return m, nil

	case command.Quit:
		m.poller.Stop()
		return m, tea.Quit
	}
	return m, nil
}
