package render

import (
	"context"
	"html/template"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

var imageWidths = []string{"normal", "small", "large", "full"}

type imageConfig struct {
	ImageURL  string `mapstructure:"imageUrl"`
	Alt       string `mapstructure:"alt"`
	Caption   string `mapstructure:"caption"`
	Width     string `mapstructure:"width"`
	Alignment string `mapstructure:"alignment"`
	LinkURL   string `mapstructure:"linkUrl"`
}

// ImageRenderer renders a single image with optional caption and link.
type ImageRenderer struct{}

func NewImageRenderer() *ImageRenderer { return &ImageRenderer{} }

func (r *ImageRenderer) Type() string { return "image" }

func (r *ImageRenderer) config(data map[string]any) (imageConfig, bool) {
	var cfg imageConfig
	if err := decode(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, !sanitize.IsBlank(cfg.ImageURL)
}

func (r *ImageRenderer) Validate(data map[string]any) bool {
	_, ok := r.config(data)
	return ok
}

func (r *ImageRenderer) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	cfg, _ := r.config(data)
	return execute("image", map[string]any{
		"URL":       cfg.ImageURL,
		"Alt":       cfg.Alt,
		"Caption":   cfg.Caption,
		"Link":      cfg.LinkURL,
		"Width":     choice(cfg.Width, imageWidths, "normal"),
		"Alignment": choice(cfg.Alignment, alignments, defaultAlign),
	})
}
