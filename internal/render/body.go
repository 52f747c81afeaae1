// Package render turns backend message fields into terminal text.
package render

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTagRegex   = regexp.MustCompile(`(?i)<\s*(html|body|div|p|br|table|span|a|td|ul|ol|li|h[1-6])[\s/>]`)
	blankRunsRegex = regexp.MustCompile(`\n{3,}`)
)

const blockTags = "p, div, tr, li, h1, h2, h3, h4, h5, h6, blockquote, pre, table, ul, ol"

// IsHTML reports whether body looks like an HTML document or fragment.
func IsHTML(body string) bool {
	return htmlTagRegex.MatchString(body)
}

// Body returns body as plain text. HTML is flattened: scripts and styles
// are dropped, block elements and <br> become line breaks, and links
// keep their target in parentheses.
func Body(body string) string {
	if !IsHTML(body) {
		return tidy(body)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return tidy(body)
	}

	doc.Find("script, style, head, title").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		text := strings.TrimSpace(s.Text())
		if !ok || href == "" || strings.HasPrefix(href, "#") || href == text {
			return
		}
		if text == "" {
			s.SetText(href)
			return
		}
		s.SetText(text + " (" + href + ")")
	})
	doc.Find(blockTags).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
		s.PrependHtml("\n")
	})

	return tidy(doc.Text())
}

// tidy normalizes line endings and whitespace and collapses runs of
// blank lines.
func tidy(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}

	text = strings.Join(lines, "\n")
	text = blankRunsRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
