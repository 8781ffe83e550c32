package render

import (
	"context"
	"html/template"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

var testimonialStyles = []string{"cards", "minimal", "bordered"}

type testimonialItem struct {
	Quote    string  `mapstructure:"quote"`
	Name     string  `mapstructure:"name"`
	Position string  `mapstructure:"position"`
	Company  string  `mapstructure:"company"`
	Avatar   string  `mapstructure:"avatar"`
	Rating   float64 `mapstructure:"rating"`
}

type testimonialsConfig struct {
	Title        string `mapstructure:"title"`
	Columns      int    `mapstructure:"columns"`
	Style        string `mapstructure:"style"`
	Testimonials []any  `mapstructure:"testimonials"`
}

// TestimonialsRenderer renders quotes with author details and star ratings.
type TestimonialsRenderer struct {
	imageBase string
}

func NewTestimonialsRenderer(imageBase string) *TestimonialsRenderer {
	if imageBase == "" {
		imageBase = defaultImageBase
	}
	return &TestimonialsRenderer{imageBase: imageBase}
}

func (r *TestimonialsRenderer) Type() string { return "testimonials" }

func (r *TestimonialsRenderer) config(data map[string]any) (testimonialsConfig, []testimonialItem, bool) {
	cfg := testimonialsConfig{Columns: 3}
	if err := decode(data, &cfg); err != nil {
		return cfg, nil, false
	}
	if !oneOf(cfg.Columns, 1, 2, 3, 4) {
		return cfg, nil, false
	}
	items := decodeItems(cfg.Testimonials, func() testimonialItem { return testimonialItem{} }, func(t testimonialItem) bool {
		return !sanitize.IsBlank(t.Quote)
	})
	for _, t := range items {
		if !(t.Rating >= 0 && t.Rating <= 5) {
			return cfg, nil, false
		}
	}
	return cfg, items, len(items) > 0
}

func (r *TestimonialsRenderer) Validate(data map[string]any) bool {
	_, _, ok := r.config(data)
	return ok
}

type testimonialEntry struct {
	Quote  string
	Name   string
	Role   string
	Avatar string
	Rating float64
}

func (r *TestimonialsRenderer) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	cfg, items, _ := r.config(data)

	entries := make([]testimonialEntry, 0, len(items))
	for _, t := range items {
		avatar := t.Avatar
		if avatar == "" && !sanitize.IsBlank(t.Name) {
			avatar = DefaultImage(r.imageBase, t.Name, "6366f1", 0)
		}
		entries = append(entries, testimonialEntry{
			Quote:  t.Quote,
			Name:   t.Name,
			Role:   joinNonBlank(", ", t.Position, t.Company),
			Avatar: avatar,
			Rating: t.Rating,
		})
	}

	return execute("testimonials", map[string]any{
		"Title":        cfg.Title,
		"Columns":      cfg.Columns,
		"Style":        choice(cfg.Style, testimonialStyles, "cards"),
		"Testimonials": entries,
	})
}
