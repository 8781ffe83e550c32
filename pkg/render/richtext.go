package render

import (
	"context"
	"html/template"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

var (
	contentWidths = []string{"normal", "narrow", "wide", "full"}
	paddings      = []string{"normal", "none", "small", "large"}
	textFormats   = []string{"html", "markdown"}
)

type richTextConfig struct {
	Content string `mapstructure:"content"`
	Width   string `mapstructure:"width"`
	Padding string `mapstructure:"padding"`
	Format  string `mapstructure:"format"`
}

// RichTextRenderer renders author HTML (or Markdown) content.
type RichTextRenderer struct {
	rich func(string) string
}

// NewRichTextRenderer returns a renderer applying rich to the content.
func NewRichTextRenderer(rich func(string) string) *RichTextRenderer {
	if rich == nil {
		rich = sanitize.RichHTML
	}
	return &RichTextRenderer{rich: rich}
}

func (r *RichTextRenderer) Type() string { return "richtext" }

func (r *RichTextRenderer) config(data map[string]any) (richTextConfig, bool) {
	var cfg richTextConfig
	if err := decode(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, !sanitize.IsBlank(cfg.Content)
}

func (r *RichTextRenderer) Validate(data map[string]any) bool {
	_, ok := r.config(data)
	return ok
}

func (r *RichTextRenderer) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	cfg, _ := r.config(data)

	var content string
	if choice(cfg.Format, textFormats, "html") == "markdown" {
		content = sanitize.Markdown(cfg.Content)
	} else {
		content = r.rich(cfg.Content)
	}

	return execute("richtext", map[string]any{
		"Width":   choice(cfg.Width, contentWidths, "normal"),
		"Padding": choice(cfg.Padding, paddings, "normal"),
		"Content": template.HTML(content),
	})
}
