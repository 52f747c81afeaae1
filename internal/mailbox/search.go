package mailbox

import (
	"strings"

	"github.com/nhle/inbox/internal/model"
)

// Query returns the current search query.
func (s *Session) Query() string {
	return s.query
}

// SetQuery sets the search query applied by Visible.
func (s *Session) SetQuery(q string) {
	s.query = q
}

// Visible returns the messages matching the search query. An empty query
// returns the whole snapshot.
func (s *Session) Visible() []model.Message {
	return Filter(s.messages, s.query)
}

// Filter returns the messages whose sender, subject or snippet contains
// query, ignoring case.
func Filter(msgs []model.Message, query string) []model.Message {
	if query == "" {
		return msgs
	}

	q := strings.ToLower(query)

	out := make([]model.Message, 0, len(msgs))
	for _, m := range msgs {
		if strings.Contains(strings.ToLower(m.From), q) ||
			strings.Contains(strings.ToLower(m.Subject), q) ||
			strings.Contains(strings.ToLower(m.Snippet), q) {
			out = append(out, m)
		}
	}
	return out
}
