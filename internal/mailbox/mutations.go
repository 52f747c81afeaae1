package mailbox

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/api"
	"github.com/nhle/inbox/internal/model"
)

// MarkRead flips the message to read locally and fires the remote call.
// Marking a read message again only repeats the remote call.
func (s *Session) MarkRead(id string) tea.Cmd {
	s.PatchMessage(id, model.MarkReadPatch())
	s.pendingRead[id]++

	backend := s.backend
	return s.dispatch(model.MutationMarkRead, id, "", func(ctx context.Context) error {
		return backend.MarkRead(ctx, id)
	})
}

// Trash removes the message locally and fires the remote call. The
// viewer closes if the message was open.
func (s *Session) Trash(id string) tea.Cmd {
	s.RemoveMessage(id)
	s.pendingRemoval[id]++
	if s.openID == id {
		s.Close()
	}

	backend := s.backend
	return s.dispatch(model.MutationTrash, id, "", func(ctx context.Context) error {
		return backend.Trash(ctx, id)
	})
}

// Archive removes the message locally, closes the viewer if it was open,
// and fires the remote archive with the configured label.
func (s *Session) Archive(id string) tea.Cmd {
	s.RemoveMessage(id)
	s.pendingRemoval[id]++
	if s.openID == id {
		s.Close()
	}

	backend := s.backend
	label := s.opts.ArchiveLabel
	return s.dispatch(model.MutationArchive, id, label, func(ctx context.Context) error {
		return backend.Archive(ctx, id, label)
	})
}

// ArchiveOpen archives the open message.
func (s *Session) ArchiveOpen() tea.Cmd {
	if s.viewer != ViewerOpen {
		return nil
	}
	return s.Archive(s.openID)
}

// ApplySuggestedLabel attaches the analysis' suggested label to the open
// message. Nothing changes locally until the backend confirms.
func (s *Session) ApplySuggestedLabel() tea.Cmd {
	if s.viewer != ViewerOpen || s.analysis == nil || s.analysis.SuggestedLabel == "" {
		return nil
	}
	return s.ApplyLabel(s.openID, s.analysis.SuggestedLabel)
}

// ApplyLabel attaches the label named name to the message with id.
func (s *Session) ApplyLabel(id, name string) tea.Cmd {
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return nil
	}

	backend := s.backend
	return s.dispatch(model.MutationAddLabel, id, name, func(ctx context.Context) error {
		return backend.AddLabel(ctx, id, name)
	})
}

// dispatch runs a fire-and-forget remote call and journals its outcome.
func (s *Session) dispatch(
	kind model.MutationKind,
	id string,
	detail string,
	call func(ctx context.Context) error,
) tea.Cmd {
	sid := s.id
	timeout := s.opts.RequestTimeout
	journal := s.opts.Journal
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		err := call(ctx)
		record(journal, kind, id, detail, err)
		return MutationDoneMsg{Session: sid, Kind: kind, MessageID: id, Label: detail, Err: err}
	}
}

func (s *Session) applyMutation(msg MutationDoneMsg) tea.Cmd {
	switch msg.Kind {
	case model.MutationMarkRead:
		release(s.pendingRead, msg.MessageID)
	case model.MutationTrash, model.MutationArchive:
		release(s.pendingRemoval, msg.MessageID)
	}

	// Failed mutations are not rolled back; the next snapshot reconciles.
	if msg.Err != nil {
		log.Printf("%s %s: %v", msg.Kind, msg.MessageID, msg.Err)
		return nil
	}

	switch msg.Kind {
	case model.MutationArchive:
		return s.Notify("Message archived", model.NotificationSuccess)
	case model.MutationAddLabel:
		if l, ok := s.labelByName(msg.Label); ok {
			s.PatchMessage(msg.MessageID, model.MessagePatch{AddLabels: []string{l.ID}})
		}
		return s.Notify(fmt.Sprintf("Label %q applied", msg.Label), model.NotificationSuccess)
	}
	return nil
}

// SendReply sends the draft as a reply to the open message. It does
// nothing when no message is open, the draft is blank, or a reply is
// already being sent.
func (s *Session) SendReply() tea.Cmd {
	if s.viewer != ViewerOpen || s.sending || strings.TrimSpace(s.draft) == "" {
		return nil
	}
	s.sending = true

	id, text := s.openID, s.draft
	sid := s.id
	backend := s.backend
	timeout := s.opts.RequestTimeout
	journal := s.opts.Journal
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		err := backend.Reply(ctx, id, text)
		record(journal, model.MutationReply, id, "", err)
		return ReplySentMsg{Session: sid, MessageID: id, Err: err}
	}
}

func (s *Session) applyReply(msg ReplySentMsg) tea.Cmd {
	s.sending = false
	if msg.Err != nil {
		log.Printf("replying to %s: %v", msg.MessageID, msg.Err)
		return s.Notify(api.ErrorDetail(msg.Err, "Could not send the reply"), model.NotificationError)
	}

	if s.viewer == ViewerOpen && s.openID == msg.MessageID {
		s.draft = ""
		s.draftTouched = false
	}
	return s.Notify("Reply sent", model.NotificationSuccess)
}

// CreateEvent creates a calendar event for the meeting detected in the
// open message. Without a detected meeting date only an informational
// notification is shown.
func (s *Session) CreateEvent() tea.Cmd {
	if s.viewer != ViewerOpen || s.creatingEvent {
		return nil
	}
	if s.analysis == nil || !s.analysis.HasMeeting() {
		return s.Notify("No valid meeting detected", model.NotificationInfo)
	}

	title := s.openMsg.Subject
	if strings.TrimSpace(title) == "" {
		title = "Meeting"
	}
	req := model.MeetingRequest{
		Title:           title,
		StartDatetime:   s.analysis.ProposedDatetime,
		DurationMinutes: s.analysis.MeetingDuration(),
		Attendees:       []string{},
	}
	s.creatingEvent = true

	id := s.openID
	sid := s.id
	backend := s.backend
	timeout := s.opts.RequestTimeout
	journal := s.opts.Journal
	create := func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		link, err := backend.CreateMeeting(ctx, req)
		record(journal, model.MutationCreateEvent, id, req.StartDatetime, err)
		return EventCreatedMsg{Session: sid, MessageID: id, Link: link, Err: err}
	}
	return tea.Batch(s.Notify("Creating calendar event…", model.NotificationInfo), create)
}

func (s *Session) applyEvent(msg EventCreatedMsg) tea.Cmd {
	s.creatingEvent = false
	if msg.Err != nil {
		log.Printf("creating event for %s: %v", msg.MessageID, msg.Err)
		return s.Notify(api.ErrorDetail(msg.Err, "Could not create the calendar event"), model.NotificationError)
	}

	notify := s.Notify("Calendar event created", model.NotificationSuccess)
	open := s.opts.OpenLink
	if msg.Link == "" || open == nil {
		return notify
	}
	link := msg.Link
	return tea.Batch(notify, func() tea.Msg {
		if err := open(link); err != nil {
			log.Printf("opening %s: %v", link, err)
		}
		return nil
	})
}

func release(pending map[string]int, id string) {
	if pending[id] <= 1 {
		delete(pending, id)
		return
	}
	pending[id]--
}

func record(journal Journal, kind model.MutationKind, id, detail string, err error) {
	if journal == nil {
		return
	}

	rec := model.MutationRecord{
		Kind:      kind,
		MessageID: id,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if err != nil {
		rec.Error = err.Error()
	}

	ctx, cancel := withTimeout(journalTimeout)
	defer cancel()
	if jerr := journal.RecordMutation(ctx, rec); jerr != nil {
		log.Printf("journaling %s %s: %v", kind, id, jerr)
	}
}
