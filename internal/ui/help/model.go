package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/keys"
	"github.com/nhle/inbox/internal/theme"
)

// section is one titled group of bindings.
type section struct {
	title    string
	bindings []key.Binding
}

// paletteEntry documents one command palette line.
type paletteEntry struct {
	usage string
	desc  string
}

var palette = []paletteEntry{
	{"refresh, sync", "reload the folder and labels"},
	{"inbox, sent, drafts, trash", "switch folder"},
	{"label <name>", "open a user label"},
	{"logout", "end the session"},
	{"help", "show this page"},
	{"quit, q", "exit"},
}

// Context describes the mail view behind the overlay.
type Context struct {
	Folder     string
	ViewerOpen bool
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	ctx    Context
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// SetContext records what the mail view is showing.
func (m *Model) SetContext(ctx Context) {
	m.ctx = ctx
}

func (m Model) sections() []section {
	k := m.keys
	reply := []key.Binding{
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit draft")),
		k.Send,
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop editing")),
	}
	return []section{
		{"Move", []key.Binding{k.Up, k.Down, k.NextPane, k.Select, k.Back, k.Search}},
		{"Folders", []key.Binding{k.Inbox, k.Sent, k.Drafts, k.Trash, k.Refresh}},
		{"Message", []key.Binding{k.Delete, k.Archive, k.Label, k.Calendar, k.Reply}},
		{"Reply", reply},
		{"App", []key.Binding{k.Command, k.Help, k.Quit}},
	}
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	m.help.Width = m.width - 8

	blocks := []string{titleStyle.Render("Keyboard Shortcuts")}
	if note := m.contextNote(); note != "" {
		blocks = append(blocks, theme.DimmedStyle.Render(note), "")
	}

	for _, s := range m.sections() {
		blocks = append(blocks,
			theme.SectionTitleStyle.Render(s.title),
			m.help.FullHelpView([][]key.Binding{s.bindings}),
			"",
		)
	}

	blocks = append(blocks, theme.SectionTitleStyle.Render("Commands (:)"), m.paletteView())

	return theme.OverlayStyle.
		Width(max(m.width-4, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

// contextNote says which message the Message keys act on.
func (m Model) contextNote() string {
	switch {
	case m.ctx.ViewerOpen:
		return "Message keys act on the open message while the reader has focus, otherwise on the highlighted row."
	case m.ctx.Folder != "":
		return "Message keys act on the highlighted row in " + m.ctx.Folder + "."
	}
	return ""
}

func (m Model) paletteView() string {
	width := 0
	for _, e := range palette {
		width = max(width, lipgloss.Width(e.usage))
	}
	usage := lipgloss.NewStyle().Foreground(theme.ColorBlue).Width(width + 2)

	lines := make([]string, 0, len(palette))
	for _, e := range palette {
		lines = append(lines, usage.Render(e.usage)+theme.HelpStyle.Render(e.desc))
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 8
}
