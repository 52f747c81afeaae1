package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/theme"
)

const (
	sidebarWidth  = 22
	minListWidth  = 30
	listWidthPart = 3 // list takes 3/8 of what remains after the sidebar
)

// Layout manages the three-pane terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.StatusBarHeight, 0)
}

// SidebarWidth returns the width of the folder sidebar.
func (l Layout) SidebarWidth() int {
	return min(sidebarWidth, l.Width/4)
}

// ListWidth returns the width of the message list pane.
func (l Layout) ListWidth() int {
	rest := l.Width - l.SidebarWidth()
	return min(max(rest*listWidthPart/8, minListWidth), rest)
}

// ViewerWidth returns the width left for the reading pane.
func (l Layout) ViewerWidth() int {
	return max(l.Width-l.SidebarWidth()-l.ListWidth(), 0)
}

// RenderHeader renders the top header bar with a title and sync status.
func (l Layout) RenderHeader(title string, syncStatus string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(syncStatus)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderStatusBar renders the bottom status bar. A live notification
// takes the left side; keyboard hints fill the rest.
func (l Layout) RenderStatusBar(hints string, notice *model.Notification) string {
	var left string
	if notice != nil {
		left = theme.NotificationStyle(string(notice.Kind)).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(notice.Message)
	}
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, rendered)
}

// RenderPanes joins the sidebar, list and viewer side by side.
func (l Layout) RenderPanes(sidebar, list, viewer string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, list, viewer)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}

// RenderCentered places content in the middle of the content area.
func (l Layout) RenderCentered(content string) string {
	return lipgloss.Place(
		l.Width,
		l.ContentHeight(),
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}
