package maillist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/render"
	"github.com/nhle/inbox/internal/theme"
)

const (
	unreadDot = "●"
	openMark  = "▸"
)

// MessageItem wraps a model.Message so it can be used in a bubbles/list.
type MessageItem struct {
	Msg model.Message

	// Label is the name of the first user label on the message, if any.
	Label string
}

// FilterValue returns the string used for list filtering.
func (i MessageItem) FilterValue() string { return i.Msg.Subject }

// Title returns the sender display name.
func (i MessageItem) Title() string { return render.SenderName(i.Msg.From) }

// Description returns the subject line.
func (i MessageItem) Description() string { return i.Msg.Subject }

// ItemDelegate implements list.ItemDelegate for message rows.
type ItemDelegate struct {
	// openID marks the row shown in the reading pane.
	openID string
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a two-line message row: sender with label chip, then
// subject with snippet.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(MessageItem)
	if !ok {
		return
	}
	isSelected := index == m.Index()
	width := max(m.Width()-3, 8)

	prefix := " "
	if mi.Msg.Unread {
		prefix = lipgloss.NewStyle().Foreground(theme.ColorBlue).Render(unreadDot)
	}
	if mi.Msg.ID == d.openID {
		prefix = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(openMark)
	}

	chip := ""
	if mi.Label != "" {
		chip = theme.LabelChipStyle.Render(render.Truncate(mi.Label, 14))
	}

	senderWidth := max(width-2-lipgloss.Width(chip), 1)
	sender := render.Fit(render.SenderName(mi.Msg.From), senderWidth)

	subject := mi.Msg.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	subject = render.Truncate(render.OneLine(subject), width-2)
	snippet := ""
	if rest := width - 2 - lipgloss.Width(subject) - 3; rest > 4 && mi.Msg.Snippet != "" {
		snippet = theme.DimmedStyle.Render(" · " + render.Truncate(render.OneLine(mi.Msg.Snippet), rest))
	}

	if mi.Msg.Unread {
		sender = theme.UnreadStyle.Render(sender)
		subject = theme.UnreadStyle.Render(subject)
	}

	line := fmt.Sprintf("%s %s%s\n  %s%s", prefix, sender, chip, subject, snippet)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
