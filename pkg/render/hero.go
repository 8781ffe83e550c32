package render

import (
	"context"
	"html/template"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

var (
	alignments   = []string{"center", "left", "right"}
	heroHeights  = []string{"medium", "small", "large", "full"}
	defaultAlign = "center"
)

type heroConfig struct {
	Title             string  `mapstructure:"title"`
	Subtitle          string  `mapstructure:"subtitle"`
	BackgroundImage   string  `mapstructure:"backgroundImage"`
	BackgroundOverlay float64 `mapstructure:"backgroundOverlay"`
	Alignment         string  `mapstructure:"alignment"`
	Height            string  `mapstructure:"height"`
	ButtonText        string  `mapstructure:"buttonText"`
	ButtonURL         string  `mapstructure:"buttonUrl"`
}

// HeroRenderer renders full width banners with an optional call to action.
type HeroRenderer struct{}

func NewHeroRenderer() *HeroRenderer { return &HeroRenderer{} }

func (r *HeroRenderer) Type() string { return "hero" }

func (r *HeroRenderer) config(data map[string]any) (heroConfig, bool) {
	cfg := heroConfig{BackgroundOverlay: 0.4}
	if err := decode(data, &cfg); err != nil {
		return cfg, false
	}
	if sanitize.IsBlank(cfg.Title) {
		return cfg, false
	}
	if !(cfg.BackgroundOverlay >= 0 && cfg.BackgroundOverlay <= 1) {
		return cfg, false
	}
	return cfg, true
}

func (r *HeroRenderer) Validate(data map[string]any) bool {
	_, ok := r.config(data)
	return ok
}

func (r *HeroRenderer) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	cfg, _ := r.config(data)
	return execute("hero", map[string]any{
		"Title":           cfg.Title,
		"Subtitle":        cfg.Subtitle,
		"BackgroundImage": cfg.BackgroundImage,
		"Overlay":         cfg.BackgroundOverlay,
		"Alignment":       choice(cfg.Alignment, alignments, defaultAlign),
		"Height":          choice(cfg.Height, heroHeights, "medium"),
		"ButtonText":      cfg.ButtonText,
		"ButtonURL":       cfg.ButtonURL,
	})
}
