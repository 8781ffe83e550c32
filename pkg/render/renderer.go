// Package render turns page blocks into HTML.
//
// Every block type has one BlockRenderer. Renderers are collected in a
// Registry at startup and driven by a Composer, which validates each block,
// renders it and replaces anything that cannot be shown with an HTML comment
// so a single broken block never takes the page down.
//
// Markup lives in embedded html/template files under templates/, so author
// text is escaped by the template engine. Rich fields go through the Deps.Rich
// policy and are the only values inserted as template.HTML.
package render

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rubiojr/pagebuilder/pkg/gateway"
	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

// BlockRenderer renders one block type.
//
// Validate must be total: it never panics on malformed data. Render is only
// called with data the same renderer validated.
type BlockRenderer interface {
	Type() string
	Validate(data map[string]any) bool
	Render(ctx context.Context, data map[string]any) (template.HTML, error)
}

// FallbackRenderer is implemented by renderers that can show something
// useful (an empty state) when Render fails.
type FallbackRenderer interface {
	Fallback(data map[string]any) template.HTML
}

// Deps are the collaborators shared by the core renderers.
type Deps struct {
	// Gateway serves the data-driven grids. Grids are not registered when nil.
	Gateway gateway.Gateway
	// Rich is applied to rich fields. Defaults to sanitize.RichHTML.
	Rich func(string) string
	// NewID returns per-instance element ids. Defaults to NewInstanceID.
	NewID func(kind string) string
	// DefaultImageBase is the avatar service used for rows without an image.
	DefaultImageBase string
	// Now is used for relative dates. Defaults to time.Now.
	Now func() time.Time
	// Metrics is optional.
	Metrics *Metrics
}

const defaultImageBase = "https://ui-avatars.com/api/"

func (d Deps) withDefaults() Deps {
	if d.Rich == nil {
		d.Rich = sanitize.RichHTML
	}
	if d.NewID == nil {
		d.NewID = NewInstanceID
	}
	if d.DefaultImageBase == "" {
		d.DefaultImageBase = defaultImageBase
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

//go:embed templates/*.html templates/scripts/*.html
var templateFS embed.FS

var blockTemplates = template.Must(
	template.New("blocks").Funcs(GetTemplateFuncs()).ParseFS(templateFS, "templates/*.html", "templates/scripts/*.html"),
)

// execute runs the named block template.
func execute(name string, data any) (template.HTML, error) {
	var buf strings.Builder
	if err := blockTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
