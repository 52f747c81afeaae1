// Package mailbox holds the client-side state of one authenticated mail
// session: the current folder snapshot, the open message and its
// analysis, the reply draft, and the notification slot.
//
// A Session is not safe for concurrent use. It is meant to be owned by a
// Bubble Tea model: every remote call is returned as a tea.Cmd, and its
// completion must be handed back through Update on the program's thread.
// Completions are re-checked against current state before they are
// applied, so late results for an abandoned folder or message are dropped.
package mailbox

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/model"
)

// lastSessionID hands out Session ids.
var lastSessionID atomic.Uint64

// Session is the explicit application state for one login.
type Session struct {
	id      uint64
	backend Backend
	opts    Options

	// snapshot
	folder   model.Folder
	messages []model.Message
	labels   []model.Label
	loading  bool
	loadSeq  uint64
	loadErr  error

	// in-flight optimistic mutations, counted per message id
	pendingRemoval map[string]int
	pendingRead    map[string]int

	// viewer
	viewer       ViewerState
	openID       string
	openMsg      model.Message
	analysisSeq  uint64
	analyzing    bool
	analysis     *model.AnalysisResult
	draft        string
	draftTouched bool

	sending       bool
	creatingEvent bool

	notice    *model.Notification
	noticeGen uint64

	query string
}

// New creates a Session bound to backend. No request is issued until
// LoadFolder or LoadLabels is called.
func New(backend Backend, opts Options) *Session {
	return &Session{
		id:             lastSessionID.Add(1),
		backend:        backend,
		opts:           opts.withDefaults(),
		pendingRemoval: make(map[string]int),
		pendingRead:    make(map[string]int),
	}
}

// Start loads the label set and the given folder.
func (s *Session) Start(folder model.Folder) tea.Cmd {
	return tea.Batch(s.LoadLabels(), s.LoadFolder(folder))
}

// ID identifies this session in the completion messages it issues.
func (s *Session) ID() uint64 {
	return s.id
}

// Owns reports whether msg is a completion issued by this session.
func (s *Session) Owns(msg tea.Msg) bool {
	id, ok := sessionOf(msg)
	return ok && id == s.id
}

// Update applies a completion message produced by one of the session's
// commands. Messages the session does not own, including completions
// issued by an earlier session, are ignored.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	if !s.Owns(msg) {
		return nil
	}
	switch msg := msg.(type) {
	case FolderLoadedMsg:
		return s.applyLoad(msg)
	case FolderRefreshedMsg:
		return s.applyRefresh(msg)
	case LabelsLoadedMsg:
		return s.applyLabels(msg)
	case AnalysisDoneMsg:
		return s.applyAnalysis(msg)
	case MutationDoneMsg:
		return s.applyMutation(msg)
	case ReplySentMsg:
		return s.applyReply(msg)
	case EventCreatedMsg:
		return s.applyEvent(msg)
	case NotificationExpiredMsg:
		s.expireNotification(msg.Gen)
	}
	return nil
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
