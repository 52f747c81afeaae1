package maillist

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/inbox/internal/keys"
	"github.com/nhle/inbox/internal/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func messages(ids ...string) []model.Message {
	out := make([]model.Message, len(ids))
	for i, id := range ids {
		out[i] = model.Message{ID: id, From: "Ana <ana@example.com>", Subject: "s" + id}
	}
	return out
}

func TestSetMessages_KeepsCursorOnSameMessage(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetMessages(messages("a", "b", "c"), nil)
	m, _ = m.Update(runes("j"))
	m, _ = m.Update(runes("j"))

	id, ok := m.SelectedID()
	require.True(t, ok)
	require.Equal(t, "c", id)

	m.SetMessages(messages("new", "a", "b", "c"), nil)
	id, _ = m.SelectedID()
	assert.Equal(t, "c", id)

	m.SetMessages(messages("a"), nil)
	id, _ = m.SelectedID()
	assert.Equal(t, "a", id)
}

func TestSetMessages_Labels(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetMessages(messages("a"), func(msg model.Message) string { return "Work" })

	item, ok := m.list.SelectedItem().(MessageItem)
	require.True(t, ok)
	assert.Equal(t, "Work", item.Label)
}

func TestEnter_OpensSelected(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetMessages(messages("a", "b"), nil)
	m, _ = m.Update(runes("j"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, OpenMessageMsg{ID: "b"}, cmd())
}

func TestEnter_EmptyList(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestSearch_PublishesEveryEdit(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m, _ = m.Update(runes("/"))
	require.True(t, m.Searching())

	var got []string
	for _, r := range "ab" {
		var cmd tea.Cmd
		m, cmd = m.Update(runes(string(r)))
		for _, msg := range expand(cmd) {
			if sc, ok := msg.(SearchChangedMsg); ok {
				got = append(got, sc.Query)
			}
		}
	}
	assert.Equal(t, []string{"a", "ab"}, got)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Searching())
	assert.Equal(t, "ab", m.Query())
}

func TestSearch_EscapeClears(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m, _ = m.Update(runes("/"))
	m, _ = m.Update(runes("x"))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, SearchChangedMsg{Query: ""}, cmd())
	assert.False(t, m.Searching())
	assert.Empty(t, m.Query())
}

func TestView_EmptyStates(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetLoading(true, false)
	assert.Contains(t, m.View(), "Loading messages")

	m.SetLoading(false, true)
	assert.Contains(t, m.View(), "Could not load messages")

	m.SetLoading(false, false)
	assert.Contains(t, m.View(), "No messages")
}

// expand runs cmd and flattens one level of batching.
func expand(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		if c == nil {
			continue
		}
		out = append(out, c())
	}
	return out
}
