package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/api"
	"github.com/nhle/inbox/internal/keys"
	"github.com/nhle/inbox/internal/mailbox"
	"github.com/nhle/inbox/internal/model"
	appsync "github.com/nhle/inbox/internal/sync"
	"github.com/nhle/inbox/internal/theme"
	"github.com/nhle/inbox/internal/ui"
	"github.com/nhle/inbox/internal/ui/command"
	"github.com/nhle/inbox/internal/ui/confirm"
	"github.com/nhle/inbox/internal/ui/folders"
	helpview "github.com/nhle/inbox/internal/ui/help"
	"github.com/nhle/inbox/internal/ui/maillist"
	"github.com/nhle/inbox/internal/ui/viewer"
)

const confirmLogout = "logout"

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewMail
	ViewHelp
	ViewCommand
	ViewConfirm
)

// Pane is the part of the mail view that receives keys.
type Pane int

const (
	PaneFolders Pane = iota
	PaneList
	PaneViewer
)

// Deps are the collaborators the root model drives.
type Deps struct {
	Config   *model.AppConfig
	Account  Account
	Sessions Sessions
	Journal  mailbox.Journal
	OpenLink mailbox.LinkOpener
}

// Model is the root Bubble Tea model that manages view routing,
// layout, the login gate, and the mail session.
type Model struct {
	currentView  ViewState
	previousView ViewState
	focus        Pane
	layout       ui.Layout
	keys         *keys.KeyMap
	deps         Deps

	session *mailbox.Session
	poller  *appsync.Poller

	folders     folders.Model
	list        maillist.Model
	viewer      viewer.Model
	helpView    helpview.Model
	commandView command.Model
	confirmView confirm.Model

	ready        bool
	authChecking bool
	authNote     string
	user         string
}

// New creates the root model. Nothing is fetched until Init.
func New(deps Deps) Model {
	k := keys.DefaultKeyMap()
	cfg := deps.Config

	return Model{
		currentView:  ViewLogin,
		focus:        PaneList,
		layout:       ui.NewLayout(80, 24),
		keys:         k,
		deps:         deps,
		poller:       appsync.New(deps.Account, cfg.PollInterval(), cfg.RequestTimeout()),
		folders:      folders.New(k, 22, 22),
		list:         maillist.New(k, 30, 22),
		viewer:       viewer.New(k, 28, 22),
		helpView:     helpview.New(k, 80, 22),
		commandView:  command.New(80, 22),
		authChecking: true,
	}
}

// Init checks the login and starts listening for background refreshes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		checkAuth(m.deps.Account, m.deps.Sessions),
		m.poller.WaitForNextResult(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resize()
		return m, nil

	case authCheckedMsg:
		m.authChecking = false
		if msg.err != nil {
			m.authNote = "Backend unreachable: " + api.ErrorDetail(msg.err, msg.err.Error())
			return m, nil
		}
		if !msg.loggedIn {
			m.authNote = ""
			return m, nil
		}
		m.user = msg.email
		return m, m.startSession()

	case loggedOutMsg:
		m.toLogin("Signed out.")
		return m, nil

	case loginPageMsg:
		m.authNote = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.viewer, cmd = m.viewer.Update(msg)
		return m, cmd

	case appsync.RefreshResultMsg:
		wait := m.poller.WaitForNextResult()
		if m.session == nil || msg.Generation != m.poller.Generation() {
			return m, wait
		}
		if msg.AuthFailed {
			m.toLogin(api.ErrorDetail(msg.Err, "Session expired, please log in again"))
			return m, wait
		}
		m.session.ApplyRefresh(msg.Folder, msg.Messages, msg.Err)
		return m, tea.Batch(wait, m.syncViews())

	case mailbox.FolderLoadedMsg, mailbox.FolderRefreshedMsg, mailbox.LabelsLoadedMsg,
		mailbox.AnalysisDoneMsg, mailbox.MutationDoneMsg, mailbox.ReplySentMsg,
		mailbox.EventCreatedMsg, mailbox.NotificationExpiredMsg:
		if m.session == nil || !m.session.Owns(msg) {
			return m, nil
		}
		if err := completionErr(msg); api.IsAuthError(err) {
			m.toLogin("Session expired, please log in again")
			return m, nil
		}
		cmd := m.session.Update(msg)
		return m, tea.Batch(cmd, m.syncViews())

	case folders.FolderSelectedMsg:
		m.focus = PaneList
		return m, m.changeFolder(msg.Folder)

	case maillist.SearchChangedMsg:
		if m.session != nil {
			m.session.SetQuery(msg.Query)
		}
		return m, m.syncViews()

	case maillist.OpenMessageMsg:
		if m.session == nil {
			return m, nil
		}
		cmd := m.session.Select(msg.ID)
		if m.session.Viewer() == mailbox.ViewerOpen {
			m.focus = PaneViewer
		}
		return m, tea.Batch(cmd, m.syncViews())

	case viewer.CloseMsg:
		if m.session != nil {
			m.session.Close()
		}
		m.focus = PaneList
		return m, m.syncViews()

	case viewer.SendMsg:
		return m, m.sendReply()

	case command.CommandMsg:
		m.currentView = ViewMail
		return m.executeCommand(command.Command(msg))

	case command.ErrorMsg:
		m.currentView = ViewMail
		return m, m.notify(msg.Err.Error(), model.NotificationError)

	case command.CancelMsg:
		m.currentView = ViewMail
		return m, nil

	case confirm.ResultMsg:
		m.currentView = ViewMail
		if msg.ID == confirmLogout && msg.Confirmed {
			m.poller.Stop()
			return m, logout(m.deps.Account, m.deps.Sessions)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.poller.Stop()
			return m, tea.Quit
		}
		switch m.currentView {
		case ViewLogin:
			return m.handleLoginKeys(msg)
		case ViewMail:
			return m.handleMailKeys(msg)
		case ViewHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Back) {
				m.currentView = m.previousView
			}
			return m, nil
		case ViewConfirm:
			if key.Matches(msg, m.keys.Back) {
				m.currentView = ViewMail
				return m, nil
			}
		}
	}

	return m.updateActiveView(msg)
}

// handleLoginKeys processes keys on the login gate.
func (m Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.poller.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		if m.authChecking {
			return m, nil
		}
		m.authChecking = true
		return m, checkAuth(m.deps.Account, m.deps.Sessions)
	case msg.String() == "o":
		return m, m.openLoginPage()
	}
	return m, nil
}

// handleMailKeys processes global mail keys before the focused pane
// sees them. Text inputs keep every key while they have focus.
func (m Model) handleMailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.Searching() || m.viewer.Editing() {
		return m.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.poller.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp()
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case key.Matches(msg, m.keys.NextPane):
		m.focus = m.nextPane()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()

	case key.Matches(msg, m.keys.Inbox):
		return m, m.changeFolder(model.FolderInbox)
	case key.Matches(msg, m.keys.Sent):
		return m, m.changeFolder(model.FolderSent)
	case key.Matches(msg, m.keys.Drafts):
		return m, m.changeFolder(model.FolderDraft)
	case key.Matches(msg, m.keys.Trash):
		return m, m.changeFolder(model.FolderTrash)

	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.targetID(); ok {
			return m, m.withSync(m.session.Trash(id))
		}
		return m, nil

	case key.Matches(msg, m.keys.Archive):
		if id, ok := m.targetID(); ok {
			return m, m.withSync(m.session.Archive(id))
		}
		return m, nil

	case key.Matches(msg, m.keys.Label):
		if m.session != nil {
			return m, m.withSync(m.session.ApplySuggestedLabel())
		}
		return m, nil

	case key.Matches(msg, m.keys.Calendar):
		if m.session != nil {
			return m, m.withSync(m.session.CreateEvent())
		}
		return m, nil

	case key.Matches(msg, m.keys.Send):
		return m, m.sendReply()
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewMail:
		switch m.focus {
		case PaneFolders:
			m.folders, cmd = m.folders.Update(msg)
		case PaneList:
			m.list, cmd = m.list.Update(msg)
		case PaneViewer:
			m.viewer, cmd = m.viewer.Update(msg)
			if m.session != nil && m.viewer.Editing() {
				m.session.SetDraft(m.viewer.Draft())
			}
		}
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewConfirm:
		m.confirmView, cmd = m.confirmView.Update(msg)
	}

	return m, cmd
}

// startSession creates the mail session after a successful login check.
func (m *Model) startSession() tea.Cmd {
	cfg := m.deps.Config
	m.session = mailbox.New(m.deps.Account, mailbox.Options{
		ArchiveLabel:   cfg.Mail.ArchiveLabel,
		NotifyTTL:      cfg.NotifyTimeout(),
		RequestTimeout: cfg.RequestTimeout(),
		Journal:        m.deps.Journal,
		OpenLink:       m.deps.OpenLink,
	})
	m.currentView = ViewMail
	m.focus = PaneList
	m.authNote = ""

	folder := model.Folder(cfg.Mail.DefaultFolder)
	cmd := m.session.Start(folder)
	m.poller.Bind(folder)
	return tea.Batch(cmd, m.syncViews())
}

// showHelp opens the help overlay over the mail view.
func (m *Model) showHelp() {
	var ctx helpview.Context
	if m.session != nil {
		ctx.Folder = m.folders.Name(m.session.Folder())
		ctx.ViewerOpen = m.session.Viewer() == mailbox.ViewerOpen && m.focus == PaneViewer
	}
	m.helpView.SetContext(ctx)
	m.previousView = ViewMail
	m.currentView = ViewHelp
}

// toLogin drops the session and shows the login gate.
func (m *Model) toLogin(note string) {
	m.poller.Stop()
	m.session = nil
	m.user = ""
	m.authNote = note
	m.authChecking = false
	m.currentView = ViewLogin
	m.focus = PaneList
	m.list.ResetSearch()
	m.list.SetMessages(nil, nil)
	m.viewer.Sync(nil)
}

// changeFolder switches the session and rebinds the poller so ticks
// only ever refresh the folder on screen.
func (m *Model) changeFolder(f model.Folder) tea.Cmd {
	if m.session == nil {
		return nil
	}
	m.list.ResetSearch()
	m.session.SetQuery("")
	cmd := m.session.LoadFolder(f)
	m.poller.Bind(f)
	if m.focus == PaneViewer {
		m.focus = PaneList
	}
	return tea.Batch(cmd, m.syncViews())
}

// refresh reloads the current folder and the label set.
func (m *Model) refresh() tea.Cmd {
	if m.session == nil {
		return nil
	}
	return tea.Batch(m.session.Refresh(), m.session.LoadLabels(), m.syncViews())
}

func (m *Model) sendReply() tea.Cmd {
	if m.session == nil {
		return nil
	}
	m.session.SetDraft(m.viewer.Draft())
	return m.withSync(m.session.SendReply())
}

// notify raises a notification when a session exists.
func (m *Model) notify(text string, kind model.NotificationKind) tea.Cmd {
	if m.session == nil {
		return nil
	}
	return m.session.Notify(text, kind)
}

// withSync batches cmd with a view refresh after a session mutation.
func (m *Model) withSync(cmd tea.Cmd) tea.Cmd {
	return tea.Batch(cmd, m.syncViews())
}

// targetID is the message an action applies to: the open message when
// the reading pane has focus, otherwise the highlighted row.
func (m Model) targetID() (string, bool) {
	if m.session == nil {
		return "", false
	}
	if m.focus == PaneViewer {
		if id := m.session.OpenID(); id != "" {
			return id, true
		}
	}
	return m.list.SelectedID()
}

func (m Model) nextPane() Pane {
	next := (m.focus + 1) % 3
	if next == PaneViewer && (m.session == nil || m.session.Viewer() != mailbox.ViewerOpen) {
		next = PaneFolders
	}
	return next
}

// syncViews pushes session state into the panes.
func (m *Model) syncViews() tea.Cmd {
	s := m.session
	if s == nil {
		return nil
	}

	m.folders.SetLabels(s.Labels())
	m.folders.SetActive(s.Folder())
	m.folders.SetUnread(s.UnreadCount())

	m.list.SetTitle(m.folders.Name(s.Folder()))
	m.list.SetLoading(s.Loading(), s.LoadErr() != nil)
	m.list.SetOpenID(s.OpenID())
	listCmd := m.list.SetMessages(s.Visible(), s.LabelName)

	var content *viewer.Content
	if msg, ok := s.OpenMessage(); ok {
		content = &viewer.Content{
			Message:       msg,
			Label:         s.LabelName(msg),
			Analyzing:     s.Analyzing(),
			Analysis:      s.Analysis(),
			Draft:         s.Draft(),
			Sending:       s.Sending(),
			CreatingEvent: s.CreatingEvent(),
		}
	} else if m.focus == PaneViewer {
		m.focus = PaneList
	}
	viewCmd := m.viewer.Sync(content)

	return tea.Batch(listCmd, viewCmd)
}

// resize lays out every pane for the current terminal size.
func (m *Model) resize() {
	h := m.layout.ContentHeight()
	inner := func(w int) int { return max(w-4, 1) }

	m.folders.SetSize(inner(m.layout.SidebarWidth()), max(h-2, 1))
	m.list.SetSize(inner(m.layout.ListWidth()), max(h-2, 1))
	m.viewer.SetSize(inner(m.layout.ViewerWidth()), max(h-2, 1))
	m.helpView.SetSize(m.layout.ContentWidth(), h)
	m.commandView.SetSize(m.layout.ContentWidth(), h)
}

// completionErr extracts the error carried by a session completion.
func completionErr(msg tea.Msg) error {
	switch msg := msg.(type) {
	case mailbox.FolderLoadedMsg:
		return msg.Err
	case mailbox.FolderRefreshedMsg:
		return msg.Err
	case mailbox.LabelsLoadedMsg:
		return msg.Err
	case mailbox.AnalysisDoneMsg:
		return msg.Err
	case mailbox.MutationDoneMsg:
		return msg.Err
	case mailbox.ReplySentMsg:
		return msg.Err
	case mailbox.EventCreatedMsg:
		return msg.Err
	}
	return nil
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.syncStatus())
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.notification())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.layout.RenderCentered(m.renderLogin())
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return lipgloss.JoinVertical(lipgloss.Left, m.commandView.View(), m.renderPanes())
	case ViewConfirm:
		return m.layout.RenderCentered(m.confirmView.View())
	default:
		return m.renderPanes()
	}
}

func (m Model) renderPanes() string {
	h := m.layout.ContentHeight()
	pane := func(p Pane, w int, body string) string {
		style := theme.PanelStyle
		if m.focus == p {
			style = theme.FocusedPanelStyle
		}
		return style.Width(max(w-2, 0)).Height(max(h-2, 0)).Render(body)
	}

	return m.layout.RenderPanes(
		pane(PaneFolders, m.layout.SidebarWidth(), m.folders.View()),
		pane(PaneList, m.layout.ListWidth(), m.list.View()),
		pane(PaneViewer, m.layout.ViewerWidth(), m.viewer.View()),
	)
}

func (m Model) renderLogin() string {
	title := theme.SectionTitleStyle.Render("inbox")
	if m.authChecking {
		return lipgloss.JoinVertical(lipgloss.Center, title, "", "Checking login...")
	}

	lines := []string{
		title,
		"",
		"You are not logged in.",
		"Sign in at " + m.deps.Account.LoginURL(),
		"then run `inbox login` to store the session cookie.",
		"",
		theme.HelpStyle.Render("o open login page · r retry · q quit"),
	}
	if m.authNote != "" {
		lines = append([]string{theme.NotificationStyle(string(model.NotificationError)).Render(m.authNote), ""}, lines...)
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m Model) openLoginPage() tea.Cmd {
	open := m.deps.OpenLink
	url := m.deps.Account.LoginURL()
	if open == nil {
		return nil
	}
	return func() tea.Msg {
		if err := open(url); err != nil {
			return loginPageMsg{err: fmt.Errorf("opening %s: %w", url, err)}
		}
		return nil
	}
}

func (m Model) headerTitle() string {
	title := "inbox"
	if m.user != "" {
		title += " · " + m.user
	}
	return title
}

// syncStatus returns the folder, unread count and last refresh time.
func (m Model) syncStatus() string {
	if m.session == nil {
		return "offline"
	}

	parts := []string{m.folders.Name(m.session.Folder())}
	if n := m.session.UnreadCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unread", n))
	}

	st := m.poller.Status()
	switch {
	case m.session.Loading():
		parts = append(parts, "loading")
	case st.State == appsync.SyncRunning:
		parts = append(parts, "syncing")
	case st.State == appsync.SyncError:
		parts = append(parts, "sync failed")
	case !st.LastSync.IsZero():
		parts = append(parts, "synced "+st.LastSync.Format("15:04"))
	}
	return strings.Join(parts, " · ")
}

func (m Model) notification() *model.Notification {
	if m.session == nil {
		return nil
	}
	return m.session.Notification()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "o login page | r retry | q quit"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewConfirm:
		return "←/→ choose | enter confirm | esc cancel"
	}

	switch {
	case m.list.Searching():
		return "type to filter | enter keep | esc clear"
	case m.viewer.Editing():
		return "ctrl+s send | esc done"
	case m.focus == PaneViewer:
		return "esc close | e reply | a archive | d trash | l label | c calendar"
	default:
		return "q quit | ? help | / search | enter open | tab pane | r refresh"
	}
}
