package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/rubiojr/pagebuilder/pkg/core"
)

// Placeholder reasons. They are fixed strings so nothing from block data or
// from error messages ends up in the page source.
const (
	reasonUnknownType = "unknown block type"
	reasonInvalidData = "invalid block data"
	reasonRenderError = "render error"
)

// Placeholder is the HTML comment emitted in place of a block that was
// rejected or failed:
//
//	<!-- pagebuilder: block 3 (members_grid) skipped: render error -->
func Placeholder(index int, blockType, reason string) template.HTML {
	return template.HTML(fmt.Sprintf("<!-- pagebuilder: block %d (%s) skipped: %s -->",
		index, commentSafeType(blockType), commentSafeReason(reason)))
}

func placeholderFor(index int, blockType string, state core.State, err error) template.HTML {
	reason := reasonRenderError
	if state == core.StateRejected {
		reason = reasonInvalidData
		if isUnknownType(err) {
			reason = reasonUnknownType
		}
	}
	return Placeholder(index, blockType, reason)
}

// commentSafeType reduces a block type to [a-z0-9_].
func commentSafeType(t string) string {
	var b strings.Builder
	for _, r := range core.NormalizeType(t) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}

func commentSafeReason(s string) string {
	s = strings.NewReplacer("--", "-", "<", "", ">", "").Replace(s)
	return strings.TrimSpace(s)
}
