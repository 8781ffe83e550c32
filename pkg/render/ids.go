package render

import (
	"strings"

	"github.com/google/uuid"
)

// NewInstanceID returns an element id of the form "<kind>-<uuid>". Ids are
// unique across render passes, so several accordions on one page never
// address each other's markup.
func NewInstanceID(kind string) string {
	kind = strings.Trim(strings.ReplaceAll(strings.ToLower(kind), "_", "-"), "-")
	if kind == "" {
		kind = "block"
	}
	return kind + "-" + uuid.NewString()
}
