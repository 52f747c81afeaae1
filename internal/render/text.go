package render

import (
	"strings"

	"github.com/emersion/go-message/mail"
	"github.com/mattn/go-runewidth"

	_ "github.com/emersion/go-message/charset"
)

// Sender splits a From header into display name and address. Encoded
// words are decoded. When the header does not parse, name is the raw
// header and addr is empty.
func Sender(from string) (name, addr string) {
	from = strings.TrimSpace(from)
	if from == "" {
		return "", ""
	}

	a, err := mail.ParseAddress(from)
	if err != nil {
		if i := strings.Index(from, "<"); i > 0 {
			return strings.Trim(strings.TrimSpace(from[:i]), `"`), ""
		}
		return from, ""
	}
	return a.Name, a.Address
}

// SenderName returns the display name for a From header, falling back to
// the address.
func SenderName(from string) string {
	name, addr := Sender(from)
	if name != "" {
		return name
	}
	return addr
}

// Truncate shortens s to width display cells, marking the cut with "…".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Fit truncates s to width display cells and pads it on the right to
// exactly width.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, "…")
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// OneLine collapses whitespace, including newlines, into single spaces.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
