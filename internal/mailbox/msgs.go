package mailbox

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/model"
)

// FolderLoadedMsg completes a user-initiated folder switch.
type FolderLoadedMsg struct {
	Session  uint64
	Folder   model.Folder
	Seq      uint64
	Messages []model.Message
	Err      error
}

// FolderRefreshedMsg completes an on-demand refresh of the current folder.
type FolderRefreshedMsg struct {
	Session  uint64
	Folder   model.Folder
	Seq      uint64
	Messages []model.Message
	Err      error
}

// LabelsLoadedMsg carries the backend label set.
type LabelsLoadedMsg struct {
	Session uint64
	Labels  []model.Label
	Err     error
}

// AnalysisDoneMsg completes the analysis issued when a message was opened.
type AnalysisDoneMsg struct {
	Session   uint64
	MessageID string
	Seq       uint64
	Result    *model.AnalysisResult
	Err       error
}

// MutationDoneMsg completes a fire-and-forget remote mutation.
type MutationDoneMsg struct {
	Session   uint64
	Kind      model.MutationKind
	MessageID string

	// Label is the label name for archive and add-label.
	Label string
	Err   error
}

// ReplySentMsg completes a reply send.
type ReplySentMsg struct {
	Session   uint64
	MessageID string
	Err       error
}

// EventCreatedMsg completes a calendar event creation.
type EventCreatedMsg struct {
	Session   uint64
	MessageID string
	Link      string
	Err       error
}

// NotificationExpiredMsg fires when a notification's display time is up.
type NotificationExpiredMsg struct {
	Session uint64
	Gen     uint64
}

// sessionOf returns the id of the session that issued msg, and false for
// messages that are not session completions.
func sessionOf(msg tea.Msg) (uint64, bool) {
	switch msg := msg.(type) {
	case FolderLoadedMsg:
		return msg.Session, true
	case FolderRefreshedMsg:
		return msg.Session, true
	case LabelsLoadedMsg:
		return msg.Session, true
	case AnalysisDoneMsg:
		return msg.Session, true
	case MutationDoneMsg:
		return msg.Session, true
	case ReplySentMsg:
		return msg.Session, true
	case EventCreatedMsg:
		return msg.Session, true
	case NotificationExpiredMsg:
		return msg.Session, true
	}
	return 0, false
}
