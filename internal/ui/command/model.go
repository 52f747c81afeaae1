package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/theme"
)

// Name identifies a palette command.
type Name string

const (
	Refresh Name = "refresh"
	Folder  Name = "folder"
	Label   Name = "label"
	Logout  Name = "logout"
	Help    Name = "help"
	Quit    Name = "quit"
)

// Command is a parsed palette line.
type Command struct {
	Name Name
	// Arg is the folder id for Folder and the label name for Label.
	Arg string
}

// CommandMsg is emitted when the user executes a valid command.
type CommandMsg Command

// ErrorMsg is emitted when the entered line is not a known command.
type ErrorMsg struct {
	Err error
}

// CancelMsg signals the parent to close the palette.
type CancelMsg struct{}

var folderAliases = map[string]string{
	"inbox":  "INBOX",
	"sent":   "SENT",
	"drafts": "DRAFT",
	"draft":  "DRAFT",
	"trash":  "TRASH",
}

// Parse turns a palette line into a Command.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	head := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	if id, ok := folderAliases[head]; ok {
		return Command{Name: Folder, Arg: id}, nil
	}

	switch head {
	case "refresh", "sync":
		return Command{Name: Refresh}, nil
	case "label":
		if arg == "" {
			return Command{}, fmt.Errorf("usage: label <name>")
		}
		return Command{Name: Label, Arg: arg}, nil
	case "logout":
		return Command{Name: Logout}, nil
	case "help":
		return Command{Name: Help}, nil
	case "quit", "q":
		return Command{Name: Quit}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q", head)
	}
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.input.Reset()
			return m, func() tea.Msg {
				return CancelMsg{}
			}

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, func() tea.Msg {
					return CancelMsg{}
				}
			}
			cmd, err := Parse(line)
			if err != nil {
				return m, func() tea.Msg {
					return ErrorMsg{Err: err}
				}
			}
			return m, func() tea.Msg {
				return CommandMsg(cmd)
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	input := m.input.View()

	content := lipgloss.JoinVertical(lipgloss.Left, title, input)

	return theme.OverlayStyle.
		Width(max(m.width-4, 0)).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
