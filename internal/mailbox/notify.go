package mailbox

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/model"
)

// Notification returns the visible notification, or nil.
func (s *Session) Notification() *model.Notification {
	return s.notice
}

// Notify shows text in the single notification slot, replacing whatever
// was there. The returned command clears it after the configured TTL;
// the timer of a replaced notification no longer has any effect.
func (s *Session) Notify(text string, kind model.NotificationKind) tea.Cmd {
	s.noticeGen++
	n := model.Notification{
		Message:   text,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	s.notice = &n

	gen, sid := s.noticeGen, s.id
	expire := tea.Tick(s.opts.NotifyTTL, func(time.Time) tea.Msg {
		return NotificationExpiredMsg{Session: sid, Gen: gen}
	})

	journal := s.opts.Journal
	if journal == nil {
		return expire
	}
	return tea.Batch(expire, func() tea.Msg {
		ctx, cancel := withTimeout(journalTimeout)
		defer cancel()
		if err := journal.RecordNotification(ctx, n); err != nil {
			log.Printf("journaling notification: %v", err)
		}
		return nil
	})
}

func (s *Session) expireNotification(gen uint64) {
	if gen != s.noticeGen {
		return
	}
	s.notice = nil
}
