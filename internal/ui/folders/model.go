// Package folders renders the sidebar of system folders and user labels.
package folders

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/keys"
	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/render"
	"github.com/nhle/inbox/internal/theme"
)

// FolderSelectedMsg is sent when the user picks a folder.
type FolderSelectedMsg struct {
	Folder model.Folder
}

type entry struct {
	folder model.Folder
	name   string
}

// Model is the folder sidebar.
type Model struct {
	keys    *keys.KeyMap
	entries []entry
	cursor  int
	active  model.Folder
	unread  int
	width   int
	height  int
}

// New creates a sidebar listing only the system folders.
func New(k *keys.KeyMap, width, height int) Model {
	m := Model{
		keys:   k,
		active: model.FolderInbox,
		width:  width,
		height: height,
	}
	m.SetLabels(nil)
	return m
}

// Update handles navigation keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.entries) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(m.entries)
	case key.Matches(kmsg, m.keys.Up):
		m.cursor = (m.cursor - 1 + len(m.entries)) % len(m.entries)
	case key.Matches(kmsg, m.keys.Select):
		folder := m.entries[m.cursor].folder
		return m, func() tea.Msg {
			return FolderSelectedMsg{Folder: folder}
		}
	}
	return m, nil
}

// SetLabels rebuilds the entries: system folders first, then the given
// user labels in backend order.
func (m *Model) SetLabels(labels []model.Label) {
	current := model.Folder("")
	if m.cursor < len(m.entries) {
		current = m.entries[m.cursor].folder
	}

	entries := make([]entry, 0, len(model.SystemFolders)+len(labels))
	for _, f := range model.SystemFolders {
		entries = append(entries, entry{folder: f, name: f.DisplayName()})
	}
	for _, l := range labels {
		entries = append(entries, entry{folder: model.Folder(l.ID), name: l.Name})
	}
	m.entries = entries

	m.cursor = 0
	for i, e := range entries {
		if e.folder == current {
			m.cursor = i
			break
		}
	}
}

// SetActive marks the folder currently shown and moves the cursor to it.
func (m *Model) SetActive(f model.Folder) {
	m.active = f
	for i, e := range m.entries {
		if e.folder == f {
			m.cursor = i
			return
		}
	}
}

// SetUnread sets the unread count shown next to the active folder.
func (m *Model) SetUnread(n int) {
	m.unread = n
}

// Name returns the display name of f, or its id when unknown.
func (m Model) Name(f model.Folder) string {
	for _, e := range m.entries {
		if e.folder == f {
			return e.name
		}
	}
	return string(f)
}

// Find returns the folder of the entry whose name matches, ignoring case.
func (m Model) Find(name string) (model.Folder, bool) {
	for _, e := range m.entries {
		if strings.EqualFold(e.name, name) {
			return e.folder, true
		}
	}
	return "", false
}

// View renders the sidebar.
func (m Model) View() string {
	width := max(m.width-2, 4)
	lines := []string{theme.SectionTitleStyle.Render("Folders"), ""}

	for i, e := range m.entries {
		if i == len(model.SystemFolders) {
			lines = append(lines, "", theme.SectionTitleStyle.Render("Labels"))
		}

		name := e.name
		if e.folder == m.active && m.unread > 0 {
			name = fmt.Sprintf("%s (%d)", name, m.unread)
		}
		name = render.Truncate(name, width-2)

		style := theme.ListItemStyle
		switch {
		case i == m.cursor:
			style = theme.SelectedItemStyle
		case e.folder == m.active:
			style = style.Foreground(theme.ColorGreen)
		}
		lines = append(lines, style.Render(name))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the sidebar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
