// Package textnorm cleans raw source text into the canonical form used for
// deduplication and classification.
package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// MinTextLength is the default noise threshold in characters
const MinTextLength = 20

var disallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s.!?,\-'"]`)

// Normalize strips markup, collapses whitespace, drops characters outside the
// allow-list (word characters plus . ! ? , - ' ") and trims.
// Unicode spaces such as NBSP become plain spaces before filtering; \s in the
// allow-list is ASCII only.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := collapse(stripMarkup(raw))
	text = disallowed.ReplaceAllString(text, "")
	return collapse(text)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsNoise reports whether normalized text is too short to be worth classifying
func IsNoise(text string, minLength int) bool {
	if minLength <= 0 {
		minLength = MinTextLength
	}
	return utf8.RuneCountInString(text) < minLength
}

// Join concatenates title and body the way adapters build item text
func Join(title, body string) string {
	switch {
	case body == "":
		return title
	case title == "":
		return body
	default:
		return title + " " + body
	}
}

// Truncate shortens s to maxLen runes, appending "..." when cut
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

func stripMarkup(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return raw
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	// Block-level tags carry no whitespace of their own in the text nodes
	doc.Find("br, p, div, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	doc.Find("script, style").Remove()
	return doc.Text()
}
