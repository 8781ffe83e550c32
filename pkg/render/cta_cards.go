package render

import (
	"context"
	"html/template"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

var ctaStyles = []string{"default", "elevated", "minimal"}

type ctaCard struct {
	Icon        string `mapstructure:"icon"`
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	ButtonText  string `mapstructure:"buttonText"`
	ButtonURL   string `mapstructure:"buttonUrl"`
	IconColor   string `mapstructure:"iconColor"`
}

type ctaCardsConfig struct {
	Columns int    `mapstructure:"columns"`
	Style   string `mapstructure:"style"`
	Cards   []any  `mapstructure:"cards"`
}

// CTACardsRenderer renders call to action cards with an icon and a button.
type CTACardsRenderer struct{}

func NewCTACardsRenderer() *CTACardsRenderer { return &CTACardsRenderer{} }

func (r *CTACardsRenderer) Type() string { return "cta_cards" }

func (r *CTACardsRenderer) config(data map[string]any) (ctaCardsConfig, []ctaCard, bool) {
	cfg := ctaCardsConfig{Columns: 3}
	if err := decode(data, &cfg); err != nil {
		return cfg, nil, false
	}
	if !oneOf(cfg.Columns, 2, 3, 4) {
		return cfg, nil, false
	}
	cards := decodeItems(cfg.Cards, func() ctaCard { return ctaCard{} }, func(c ctaCard) bool {
		return !sanitize.IsBlank(c.Title)
	})
	return cfg, cards, len(cards) > 0
}

func (r *CTACardsRenderer) Validate(data map[string]any) bool {
	_, _, ok := r.config(data)
	return ok
}

func (r *CTACardsRenderer) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	cfg, cards, _ := r.config(data)

	for i := range cards {
		cards[i].Icon = sanitize.ClassToken(cards[i].Icon)
		cards[i].IconColor = safeColor(cards[i].IconColor)
	}

	return execute("cta-cards", map[string]any{
		"Columns": cfg.Columns,
		"Style":   choice(cfg.Style, ctaStyles, "default"),
		"Cards":   cards,
	})
}
