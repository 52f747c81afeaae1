package maillist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/keys"
	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/theme"
)

// OpenMessageMsg is sent when the user opens the highlighted message.
type OpenMessageMsg struct {
	ID string
}

// SearchChangedMsg is sent whenever the search query changes.
type SearchChangedMsg struct {
	Query string
}

// Model is the message list pane.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	delegate    ItemDelegate
	searchMode  bool
	searchInput textinput.Model
	loading     bool
	loadFailed  bool
	width       int
	height      int
}

// New creates a new message list model.
func New(k *keys.KeyMap, width, height int) Model {
	delegate := ItemDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = model.FolderInbox.DisplayName()
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("message", "messages")
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search sender, subject, snippet..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		delegate:    delegate,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the list pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. Every edit
// publishes the new query so the list filters live.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		return m, searchChanged("")
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		return m, tea.Batch(cmd, searchChanged(after))
	}
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		id, ok := m.SelectedID()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return OpenMessageMsg{ID: id}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		return m, m.searchInput.Focus()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func searchChanged(q string) tea.Cmd {
	return func() tea.Msg {
		return SearchChangedMsg{Query: q}
	}
}

// SetMessages replaces the rows, keeping the cursor on the same message
// when it is still present. labelOf names the chip shown on each row.
func (m *Model) SetMessages(msgs []model.Message, labelOf func(model.Message) string) tea.Cmd {
	current, hadCurrent := m.SelectedID()
	cursor := m.list.Index()

	items := make([]list.Item, len(msgs))
	for i, msg := range msgs {
		item := MessageItem{Msg: msg}
		if labelOf != nil {
			item.Label = labelOf(msg)
		}
		items[i] = item
		if hadCurrent && msg.ID == current {
			cursor = i
		}
	}

	cmd := m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(min(cursor, len(items)-1))
	}
	return cmd
}

// SetOpenID marks the row shown in the reading pane.
func (m *Model) SetOpenID(id string) {
	if m.delegate.openID == id {
		return
	}
	m.delegate.openID = id
	m.list.SetDelegate(m.delegate)
}

// SetTitle sets the pane title, usually the folder name.
func (m *Model) SetTitle(title string) {
	m.list.Title = title
}

// SetLoading toggles the loading placeholder.
func (m *Model) SetLoading(loading, failed bool) {
	m.loading = loading
	m.loadFailed = failed
}

// ResetSearch leaves search mode and clears the query box.
func (m *Model) ResetSearch() {
	m.searchMode = false
	m.searchInput.Blur()
	m.searchInput.Reset()
}

// Searching reports whether the search box has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Query returns the text in the search box.
func (m Model) Query() string {
	return m.searchInput.Value()
}

// SelectedID returns the id of the highlighted message.
func (m Model) SelectedID() (string, bool) {
	item, ok := m.list.SelectedItem().(MessageItem)
	if !ok {
		return "", false
	}
	return item.Msg.ID, true
}

// View renders the list pane.
func (m Model) View() string {
	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}

	if m.searchMode || m.searchInput.Value() != "" {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, body)
	}
	return body
}

// renderEmptyState shows placeholder text when there is nothing to list.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.loading:
		return style.Render("Loading messages...")
	case m.loadFailed:
		return style.Render("Could not load messages.\nPress r to retry.")
	case m.searchInput.Value() != "":
		return style.Render("No matching messages.")
	default:
		return style.Render("No messages.")
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
