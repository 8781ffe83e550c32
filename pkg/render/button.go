package render

import (
	"context"
	"html/template"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

var (
	buttonStyles = []string{"primary", "secondary", "outline", "danger"}
	buttonSizes  = []string{"medium", "small", "large"}
	sizeTokens   = map[string]string{"small": "sm", "medium": "md", "large": "lg"}
)

type buttonConfig struct {
	Text         string `mapstructure:"text"`
	URL          string `mapstructure:"url"`
	Style        string `mapstructure:"style"`
	Size         string `mapstructure:"size"`
	Alignment    string `mapstructure:"alignment"`
	Icon         string `mapstructure:"icon"`
	OpenInNewTab bool   `mapstructure:"openInNewTab"`
}

// ButtonRenderer renders a call to action link styled as a button.
type ButtonRenderer struct{}

func NewButtonRenderer() *ButtonRenderer { return &ButtonRenderer{} }

func (r *ButtonRenderer) Type() string { return "button" }

func (r *ButtonRenderer) config(data map[string]any) (buttonConfig, bool) {
	var cfg buttonConfig
	if err := decode(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, !sanitize.IsBlank(cfg.Text) && !sanitize.IsBlank(cfg.URL)
}

func (r *ButtonRenderer) Validate(data map[string]any) bool {
	_, ok := r.config(data)
	return ok
}

func (r *ButtonRenderer) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	cfg, _ := r.config(data)

	return execute("button", map[string]any{
		"Text":      cfg.Text,
		"URL":       cfg.URL,
		"Style":     choice(cfg.Style, buttonStyles, "primary"),
		"Size":      sizeTokens[choice(cfg.Size, buttonSizes, "medium")],
		"Alignment": choice(cfg.Alignment, alignments, defaultAlign),
		"Icon":      sanitize.ClassToken(cfg.Icon),
		"NewTab":    cfg.OpenInNewTab,
	})
}
