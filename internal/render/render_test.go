package render

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestBody_PlainText(t *testing.T) {
	in := "Hi Ana,\r\n\r\n\r\n\r\nSee you   tomorrow.  \r\n"
	assert.Equal(t, "Hi Ana,\n\nSee you tomorrow.", Body(in))
}

func TestBody_HTML(t *testing.T) {
	in := `<html><head><style>p{color:red}</style></head><body>
<p>Hello <b>team</b>,</p>
<div>Agenda:<br>one<br/>two</div>
<p>Join <a href="https://meet.example.com/x">here</a> or <a href="#top">top</a>.</p>
<script>alert(1)</script>
</body></html>`

	got := Body(in)

	assert.Contains(t, got, "Hello team,")
	assert.Contains(t, got, "Agenda:\none\ntwo")
	assert.Contains(t, got, "here (https://meet.example.com/x)")
	assert.Contains(t, got, "top.")
	assert.NotContains(t, got, "color:red")
	assert.NotContains(t, got, "alert")
	assert.NotContains(t, got, "\n\n\n")
}

func TestIsHTML(t *testing.T) {
	assert.True(t, IsHTML("<p>x</p>"))
	assert.True(t, IsHTML("line<br/>line"))
	assert.False(t, IsHTML("a < b and c > d"))
	assert.False(t, IsHTML("plain"))
}

func TestSender(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		wantName string
		wantAddr string
	}{
		{"name and address", "Ana Pérez <ana@example.com>", "Ana Pérez", "ana@example.com"},
		{"quoted name", `"Billing, Inc." <billing@example.com>`, "Billing, Inc.", "billing@example.com"},
		{"address only", "bob@example.com", "", "bob@example.com"},
		{"encoded word", "=?UTF-8?Q?Jos=C3=A9?= <jose@example.com>", "José", "jose@example.com"},
		{"unparseable", "Support Team <not an address>", "Support Team", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, addr := Sender(tt.from)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantAddr, addr)
		})
	}
}

func TestSenderName(t *testing.T) {
	assert.Equal(t, "Ana", SenderName("Ana <ana@example.com>"))
	assert.Equal(t, "bob@example.com", SenderName("<bob@example.com>"))
}

func TestFitAndTruncate(t *testing.T) {
	assert.Equal(t, "hello     ", Fit("hello", 10))
	assert.Equal(t, 6, runewidth.StringWidth(Fit("会議の議題について", 6)))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Empty(t, Fit("x", 0))
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", OneLine(" a\n b\t\tc "))
}
