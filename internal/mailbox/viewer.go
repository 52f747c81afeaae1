package mailbox

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/model"
)

// ViewerState is the state of the reading pane.
type ViewerState int

const (
	ViewerClosed ViewerState = iota
	ViewerOpen
)

func (v ViewerState) String() string {
	if v == ViewerOpen {
		return "open"
	}
	return "closed"
}

// Viewer returns the reading pane state.
func (s *Session) Viewer() ViewerState {
	return s.viewer
}

// OpenID returns the id of the open message, or "".
func (s *Session) OpenID() string {
	return s.openID
}

// OpenMessage returns the open message. The copy taken when it was
// opened is kept even if a later refresh no longer lists it.
func (s *Session) OpenMessage() (model.Message, bool) {
	if s.viewer != ViewerOpen {
		return model.Message{}, false
	}
	return s.openMsg, true
}

// Select opens the message with id. The reply draft is cleared, an
// unread message is marked read locally and remotely, and a fresh
// analysis is requested. Selecting the open message again counts as a
// new open.
func (s *Session) Select(id string) tea.Cmd {
	msg, ok := s.find(id)
	if !ok {
		return nil
	}

	s.viewer = ViewerOpen
	s.openID = id
	s.openMsg = msg
	s.draft = ""
	s.draftTouched = false

	var cmds []tea.Cmd
	if msg.Unread {
		cmds = append(cmds, s.MarkRead(id))
	}
	cmds = append(cmds, s.startAnalysis(id))
	return tea.Batch(cmds...)
}

// Close closes the reading pane. The message stays in the snapshot and
// any analysis still in flight is ignored when it completes.
func (s *Session) Close() {
	s.viewer = ViewerClosed
	s.openID = ""
	s.openMsg = model.Message{}
	s.analyzing = false
	s.analysis = nil
	s.draft = ""
	s.draftTouched = false
}

// Draft returns the reply draft of the open message.
func (s *Session) Draft() string {
	return s.draft
}

// SetDraft replaces the reply draft. Once edited, the draft is no longer
// seeded from the analysis.
func (s *Session) SetDraft(text string) {
	if s.viewer != ViewerOpen || text == s.draft {
		return
	}
	s.draft = text
	s.draftTouched = true
}

// Sending reports whether a reply is in flight.
func (s *Session) Sending() bool {
	return s.sending
}

// CreatingEvent reports whether a calendar event creation is in flight.
func (s *Session) CreatingEvent() bool {
	return s.creatingEvent
}
