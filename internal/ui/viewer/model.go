// Package viewer renders the reading pane: the open message, its
// analysis, and the reply draft editor.
package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/keys"
	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/render"
	"github.com/nhle/inbox/internal/theme"
)

const draftHeight = 5

// CloseMsg asks the parent to close the reading pane.
type CloseMsg struct{}

// SendMsg asks the parent to send the current draft.
type SendMsg struct{}

// Content is the slice of session state the pane displays.
type Content struct {
	Message       model.Message
	Label         string
	Analyzing     bool
	Analysis      *model.AnalysisResult
	Draft         string
	Sending       bool
	CreatingEvent bool
}

// Model is the reading pane.
type Model struct {
	content  *Content
	viewport viewport.Model
	draft    textarea.Model
	spinner  spinner.Model
	spinning bool
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates an empty reading pane.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, max(height-draftHeight-3, 1))
	vp.Style = lipgloss.NewStyle()

	ta := textarea.New()
	ta.Placeholder = "Write a reply..."
	ta.ShowLineNumbers = false
	ta.SetWidth(max(width-2, 1))
	ta.SetHeight(draftHeight)
	ta.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		viewport: vp,
		draft:    ta,
		spinner:  sp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the pane.
func (m Model) Init() tea.Cmd {
	return nil
}

// Sync updates the pane from session state. A nil content closes it.
func (m *Model) Sync(c *Content) tea.Cmd {
	if c == nil {
		m.content = nil
		m.spinning = false
		m.draft.Blur()
		m.draft.Reset()
		return nil
	}

	switched := m.content == nil || m.content.Message.ID != c.Message.ID
	m.content = c
	m.viewport.SetContent(m.renderContent())
	if switched {
		m.viewport.GotoTop()
		m.draft.Blur()
	}
	if m.draft.Value() != c.Draft {
		m.draft.SetValue(c.Draft)
	}

	if c.Analyzing && !m.spinning {
		m.spinning = true
		return m.spinner.Tick
	}
	if !c.Analyzing {
		m.spinning = false
	}
	return nil
}

// Update handles messages for the reading pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.spinning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.content != nil {
			m.viewport.SetContent(m.renderContent())
		}
		return m, cmd

	case tea.KeyMsg:
		if m.content == nil {
			return m, nil
		}
		if m.draft.Focused() {
			return m.handleEditKeys(msg)
		}
		return m.handleReadKeys(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleEditKeys routes keys to the draft editor. The parent reads the
// result back with Draft.
func (m Model) handleEditKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.draft.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Send):
		return m, send
	}

	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(msg)
	return m, cmd
}

// handleReadKeys scrolls the body and opens the editor.
func (m Model) handleReadKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg {
			return CloseMsg{}
		}
	case key.Matches(msg, m.keys.Reply):
		return m, m.draft.Focus()
	case key.Matches(msg, m.keys.Send):
		return m, send
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func send() tea.Msg {
	return SendMsg{}
}

// Draft returns the editor text.
func (m Model) Draft() string {
	return m.draft.Value()
}

// Editing reports whether the draft editor has focus.
func (m Model) Editing() bool {
	return m.draft.Focused()
}

// View renders the reading pane.
func (m Model) View() string {
	if m.content == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No message selected")
	}

	var title string
	switch {
	case m.content.Sending:
		title = "Reply · sending..."
	case m.draft.Focused():
		title = "Reply · ctrl+s send · esc done"
	default:
		title = "Reply · e edit"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		theme.SectionTitleStyle.Render(title),
		m.draft.View(),
	)
}

// renderContent builds the header, analysis and body text.
func (m Model) renderContent() string {
	c := m.content
	msg := c.Message
	width := max(m.width-2, 10)

	var sections []string

	subject := msg.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Width(width).Render(subject))

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	name, addr := render.Sender(msg.From)
	from := name
	if addr != "" && name != "" {
		from = fmt.Sprintf("%s <%s>", name, addr)
	} else if addr != "" {
		from = addr
	}
	fromLine := metaStyle.Render("From: ") + from
	if c.Label != "" {
		fromLine += " " + theme.LabelChipStyle.Render(c.Label)
	}
	sections = append(sections, fromLine)

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", min(width, 80)))
	sections = append(sections, separator)

	sections = append(sections, m.renderAnalysis()...)
	sections = append(sections, separator, "")

	body := render.Body(msg.Body)
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No content")
	}
	sections = append(sections, lipgloss.NewStyle().Width(width).Render(body))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderAnalysis returns the summary block lines.
func (m Model) renderAnalysis() []string {
	c := m.content
	heading := theme.SectionTitleStyle.Render("Summary")
	hint := theme.HelpStyle

	if c.Analyzing {
		return []string{heading, m.spinner.View() + " Analyzing..."}
	}
	if c.Analysis == nil {
		return []string{heading, hint.Render("No analysis available")}
	}

	a := c.Analysis
	lines := []string{
		heading,
		lipgloss.NewStyle().Width(max(m.width-2, 10)).Render(a.Summary),
	}
	if a.SuggestedLabel != "" {
		lines = append(lines, fmt.Sprintf("Suggested label: %s %s",
			theme.LabelChipStyle.Render(a.SuggestedLabel),
			hint.Render("l apply")))
	}
	if when := a.MeetingLabel(); when != "" {
		action := "c create event"
		if c.CreatingEvent {
			action = "creating event..."
		}
		lines = append(lines, fmt.Sprintf("Meeting: %s %s", when, hint.Render(action)))
	}
	return lines
}

// SetSize updates the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-draftHeight-3, 1)
	m.draft.SetWidth(max(width-2, 1))
	if m.content != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
