package model

// Message is a single mail item in the current folder snapshot.
type Message struct {
	// ID is the backend message id, stable across refreshes.
	ID string `json:"id"`

	// From is the raw sender header (e.g. "Ana <ana@example.com>").
	From string `json:"from"`

	Subject string `json:"subject"`
	Snippet string `json:"snippet"`

	// Body is the extracted text/plain or text/html body.
	Body string `json:"body"`

	Unread bool `json:"unread"`

	// Labels holds the label ids attached to the message.
	Labels []string `json:"labels"`
}

// HasLabel reports whether the message carries the given label id.
func (m Message) HasLabel(id string) bool {
	for _, l := range m.Labels {
		if l == id {
			return true
		}
	}
	return false
}

// MessagePatch is a partial update merged into a Message. Nil fields
// are left untouched.
type MessagePatch struct {
	Unread    *bool
	AddLabels []string
}

// Apply merges the patch into m. Label ids already present are not
// duplicated.
func (m *Message) Apply(p MessagePatch) {
	if p.Unread != nil {
		m.Unread = *p.Unread
	}
	for _, id := range p.AddLabels {
		if m.HasLabel(id) {
			continue
		}
		labels := make([]string, len(m.Labels), len(m.Labels)+1)
		copy(labels, m.Labels)
		m.Labels = append(labels, id)
	}
}

// MarkReadPatch returns the patch that flips a message to read.
func MarkReadPatch() MessagePatch {
	unread := false
	return MessagePatch{Unread: &unread}
}
