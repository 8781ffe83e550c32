// Package sanitize holds the escaping and text shaping helpers every block
// renderer goes through before author input reaches the page.
//
// Escape and Truncate are total: they accept any string (including empty or
// whitespace-only input) and never fail. Rich content helpers (RichHTML,
// Markdown) return markup restricted to a user-generated-content policy.
package sanitize

import (
	"bytes"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Ellipsis is appended to text shortened by Truncate.
const Ellipsis = "..."

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = newUGCPolicy()
	markdown     = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Escape maps <, >, &, " and ' to their HTML entity forms.
func Escape(raw string) string {
	return html.EscapeString(raw)
}

// Truncate shortens text to at most maxLen runes and appends Ellipsis when
// anything was cut. Multi-byte characters are never split. A non-positive
// maxLen yields the empty string.
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	cut := 0
	for i := range text {
		if maxLen == 0 {
			cut = i
			break
		}
		maxLen--
	}
	return strings.TrimRightFunc(text[:cut], unicode.IsSpace) + Ellipsis
}

// StripTags removes every HTML element from s and returns plain text. The
// result is unescaped so it can be handed to html/template (or Escape)
// without double encoding.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// RichHTML restricts author markup to the user generated content policy.
func RichHTML(s string) string {
	return ugcPolicy.Sanitize(s)
}

// Trusted returns s untouched. It is used for rich fields that were already
// sanitized by the authoring layer.
func Trusted(s string) string {
	return s
}

// Markdown converts CommonMark (with GFM tables and autolinks) to HTML and
// runs the output through RichHTML. Raw HTML inside the source is dropped by
// the converter.
func Markdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "<p>" + Escape(src) + "</p>"
	}
	return RichHTML(buf.String())
}

// ClassToken reduces s to characters safe inside a class attribute token
// ([a-z0-9-]). Anything else is dropped. Used for author supplied icon names.
func ClassToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
