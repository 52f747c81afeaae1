package mailbox

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/model"
)

// Folder returns the current folder selector.
func (s *Session) Folder() model.Folder {
	return s.folder
}

// Messages returns the current folder snapshot. Callers must not modify it.
func (s *Session) Messages() []model.Message {
	return s.messages
}

// Labels returns the user-defined labels.
func (s *Session) Labels() []model.Label {
	return s.labels
}

// Loading reports whether a folder switch is waiting for its first fetch.
func (s *Session) Loading() bool {
	return s.loading
}

// LoadErr returns the error of the last folder switch, if it failed.
func (s *Session) LoadErr() error {
	return s.loadErr
}

// UnreadCount returns the number of unread messages in the snapshot.
func (s *Session) UnreadCount() int {
	n := 0
	for _, m := range s.messages {
		if m.Unread {
			n++
		}
	}
	return n
}

// LabelName returns the name of the first user label on msg, or "".
func (s *Session) LabelName(msg model.Message) string {
	for _, l := range s.labels {
		if msg.HasLabel(l.ID) {
			return l.Name
		}
	}
	return ""
}

// LoadFolder switches to folder. The viewer closes and the list empties
// at once; the fetch result is applied only if no newer switch happened.
func (s *Session) LoadFolder(folder model.Folder) tea.Cmd {
	s.folder = folder
	s.loadSeq++
	s.loading = true
	s.loadErr = nil
	s.messages = nil
	s.Close()

	seq, sid := s.loadSeq, s.id
	backend := s.backend
	timeout := s.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		msgs, err := backend.Messages(ctx, folder)
		return FolderLoadedMsg{Session: sid, Folder: folder, Seq: seq, Messages: msgs, Err: err}
	}
}

// Refresh re-fetches the current folder without touching the viewer.
// It does nothing while a folder switch is loading.
func (s *Session) Refresh() tea.Cmd {
	if s.loading {
		return nil
	}

	folder := s.folder
	seq, sid := s.loadSeq, s.id
	backend := s.backend
	timeout := s.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		msgs, err := backend.Messages(ctx, folder)
		return FolderRefreshedMsg{Session: sid, Folder: folder, Seq: seq, Messages: msgs, Err: err}
	}
}

// ApplyRefresh applies a background snapshot for folder. It is ignored
// when folder is no longer current or a switch is still loading. Errors
// are logged and leave the last good snapshot in place.
func (s *Session) ApplyRefresh(folder model.Folder, msgs []model.Message, err error) {
	if folder != s.folder || s.loading {
		return
	}
	if err != nil {
		log.Printf("refreshing %s: %v", folder, err)
		return
	}
	s.replaceMessages(msgs)
}

func (s *Session) applyLoad(msg FolderLoadedMsg) tea.Cmd {
	if msg.Folder != s.folder || msg.Seq != s.loadSeq {
		log.Printf("discarding stale load of %s", msg.Folder)
		return nil
	}

	s.loading = false
	if msg.Err != nil {
		s.loadErr = msg.Err
		log.Printf("loading %s: %v", msg.Folder, msg.Err)
		return nil
	}

	s.replaceMessages(msg.Messages)
	s.Close()
	return nil
}

func (s *Session) applyRefresh(msg FolderRefreshedMsg) tea.Cmd {
	if msg.Seq != s.loadSeq {
		return nil
	}
	s.ApplyRefresh(msg.Folder, msg.Messages, msg.Err)
	return nil
}

// replaceMessages swaps in a fetched snapshot. Messages with a removal
// still in flight stay hidden, and messages with a mark-read in flight
// stay read.
func (s *Session) replaceMessages(msgs []model.Message) {
	kept := make([]model.Message, 0, len(msgs))
	for _, m := range msgs {
		if s.pendingRemoval[m.ID] > 0 {
			continue
		}
		if s.pendingRead[m.ID] > 0 {
			m.Unread = false
		}
		kept = append(kept, m)

		if s.viewer == ViewerOpen && m.ID == s.openID {
			s.openMsg = m
		}
	}
	s.messages = kept
}

// PatchMessage merges patch into the message with id. Missing ids are
// ignored.
func (s *Session) PatchMessage(id string, patch model.MessagePatch) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Apply(patch)
			break
		}
	}
	if s.viewer == ViewerOpen && s.openID == id {
		s.openMsg.Apply(patch)
	}
}

// RemoveMessage drops the message with id from the snapshot. Missing ids
// are ignored.
func (s *Session) RemoveMessage(id string) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages = append(s.messages[:i:i], s.messages[i+1:]...)
			return
		}
	}
}

func (s *Session) find(id string) (model.Message, bool) {
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return model.Message{}, false
}

// LoadLabels fetches the label set.
func (s *Session) LoadLabels() tea.Cmd {
	sid := s.id
	backend := s.backend
	timeout := s.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		labels, err := backend.Labels(ctx)
		return LabelsLoadedMsg{Session: sid, Labels: labels, Err: err}
	}
}

// SetLabels replaces the label set, keeping only user labels.
func (s *Session) SetLabels(labels []model.Label) {
	s.labels = model.UserLabels(labels)
}

func (s *Session) applyLabels(msg LabelsLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		log.Printf("loading labels: %v", msg.Err)
		return nil
	}
	s.SetLabels(msg.Labels)
	return nil
}

func (s *Session) labelByName(name string) (model.Label, bool) {
	for _, l := range s.labels {
		if l.Name == name {
			return l, true
		}
	}
	return model.Label{}, false
}
