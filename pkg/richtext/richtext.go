// Package richtext handles the markup that registry messages may carry.
//
// Messages are stored as received. They are sanitized right before being
// rendered as HTML, or flattened to plain text for a terminal.
package richtext

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize strips anything from htmlInput that is not safe user-generated markup.
func Sanitize(htmlInput string) string {
	return policy.Sanitize(htmlInput)
}

// SanitizeStrict sanitizes htmlInput and returns an error if sanitization altered it.
func SanitizeStrict(htmlInput string) (string, error) {
	sanitized := Sanitize(htmlInput)
	if sanitized != htmlInput {
		return sanitized, fmt.Errorf("HTML input was altered during sanitization")
	}
	return sanitized, nil
}

// PlainText renders a sanitized message as terminal text. Line breaks and
// block elements become newlines; links keep their target in parentheses.
func PlainText(htmlInput string) string {
	if !strings.ContainsAny(htmlInput, "<&") {
		return strings.TrimSpace(htmlInput)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(Sanitize(htmlInput)))
	if err != nil {
		return strings.TrimSpace(htmlInput)
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, pre").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href != "" && href != s.Text() {
			s.SetText(s.Text() + " (" + href + ")")
		}
	})

	lines := strings.Split(doc.Text(), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
