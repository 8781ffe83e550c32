// Package web holds the page shell around composed block fragments.
package web

import (
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// PageData is passed to the page components.
type PageData struct {
	Title      string
	TenantName string
	TenantSlug string
	BasePath   string
	// Body is the composed block fragment. It is written as is.
	Body  template.HTML
	Pages []string
	Error string
	// LiveURL, when set, is the websocket path of the reload stream.
	LiveURL string
	Version string
}

// Page wraps a composed fragment in the document shell.
func Page(data PageData) templ.Component {
	return layout(data, templ.Raw(string(data.Body)))
}

// Index lists the pages of a tenant.
func Index(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="pb-block pb-index"><h1>`)
		b.WriteString(templ.EscapeString(data.TenantName))
		b.WriteString(`</h1>`)
		if len(data.Pages) == 0 {
			b.WriteString(`<p class="pb-empty">No pages yet.</p>`)
		} else {
			b.WriteString(`<ul>`)
			for _, slug := range data.Pages {
				href := strings.TrimRight(data.BasePath, "/") + "/" + slug
				b.WriteString(`<li><a href="`)
				b.WriteString(templ.EscapeString(href))
				b.WriteString(`">`)
				b.WriteString(templ.EscapeString(slug))
				b.WriteString(`</a></li>`)
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return layout(data, body)
}

// NotFound is the page shown for unknown tenants or pages.
func NotFound(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		msg := data.Error
		if msg == "" {
			msg = "The page you are looking for does not exist."
		}
		_, err := io.WriteString(w, `<section class="pb-block pb-not-found"><h1>Not found</h1><p>`+
			templ.EscapeString(msg)+`</p></section>`)
		return err
	})
	if data.Title == "" {
		data.Title = "Not found"
	}
	return layout(data, body)
}

func layout(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := data.Title
		if data.TenantName != "" && title != data.TenantName {
			title = joinTitle(title, data.TenantName)
		}

		var head strings.Builder
		head.WriteString("<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		head.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		head.WriteString(`<title>`)
		head.WriteString(templ.EscapeString(title))
		head.WriteString(`</title><link rel="stylesheet" href="/static/pagebuilder.css"></head>`)
		head.WriteString(`<body class="pb-page"`)
		if data.TenantSlug != "" {
			head.WriteString(` data-tenant="`)
			head.WriteString(templ.EscapeString(data.TenantSlug))
			head.WriteString(`"`)
		}
		head.WriteString(`><main class="pb-main">`)
		if _, err := io.WriteString(w, head.String()); err != nil {
			return err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		var foot strings.Builder
		foot.WriteString(`</main><footer class="pb-footer">`)
		if data.Version != "" {
			foot.WriteString(`<small>pagebuilder `)
			foot.WriteString(templ.EscapeString(data.Version))
			foot.WriteString(`</small>`)
		}
		foot.WriteString(`</footer>`)
		if data.LiveURL != "" {
			foot.WriteString(`<script data-live="`)
			foot.WriteString(templ.EscapeString(data.LiveURL))
			foot.WriteString(`">`)
			foot.WriteString(liveScript)
			foot.WriteString(`</script>`)
		}
		foot.WriteString("</body></html>\n")
		_, err := io.WriteString(w, foot.String())
		return err
	})
}

// liveScript reloads the page when the server reports a change to the pages
// of the current tenant.
const liveScript = `(function(){var s=document.currentScript;` +
	`var p=location.protocol==="https:"?"wss://":"ws://";` +
	`var ws=new WebSocket(p+location.host+s.dataset.live);` +
	`ws.onmessage=function(m){var e=JSON.parse(m.data);if(e.type==="reload"){location.reload();}};` +
	`})();`

func joinTitle(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " | ")
}
