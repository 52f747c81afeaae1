package help

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/inbox/internal/keys"
)

func TestView_ListsSectionsAndCommands(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)

	view := m.View()

	for _, want := range []string{"Move", "Folders", "Message", "Reply", "Commands (:)", "label <name>", "ctrl+s"} {
		assert.Contains(t, view, want)
	}
}

func TestView_ContextNote(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 160, 40)

	m.SetContext(Context{Folder: "Inbox"})
	assert.Contains(t, m.View(), "highlighted row in Inbox")

	m.SetContext(Context{Folder: "Inbox", ViewerOpen: true})
	assert.Contains(t, m.View(), "open message")
}
