// Package confirm wraps a huh yes/no form as a modal.
package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/theme"
)

// ResultMsg is sent once the user answers. Confirmed is false when the
// form was aborted.
type ResultMsg struct {
	ID        string
	Confirmed bool
}

// Model is a confirmation modal.
type Model struct {
	id        string
	form      *huh.Form
	confirmed *bool
	width     int
}

// New builds a confirmation for the action named id.
func New(id, title, description, affirmative string, width int) Model {
	confirmed := new(bool)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative(affirmative).
				Negative("Cancel").
				Value(confirmed),
		),
	).WithWidth(max(width-8, 20)).WithShowHelp(false)

	return Model{
		id:        id,
		form:      form,
		confirmed: confirmed,
		width:     width,
	}
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards input to the form and reports the answer once it is
// complete.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.result(*m.confirmed)
	case huh.StateAborted:
		return m, m.result(false)
	}
	return m, cmd
}

func (m Model) result(ok bool) tea.Cmd {
	id := m.id
	return func() tea.Msg {
		return ResultMsg{ID: id, Confirmed: ok}
	}
}

// View renders the modal.
func (m Model) View() string {
	return theme.OverlayStyle.
		Width(max(m.width-4, 0)).
		Render(lipgloss.NewStyle().Render(m.form.View()))
}
