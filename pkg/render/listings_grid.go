package render

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/rubiojr/pagebuilder/pkg/core"
	"github.com/rubiojr/pagebuilder/pkg/gateway"
	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

var listingTypes = []string{"offer", "request"}

type listingsGridConfig struct {
	gridConfig   `mapstructure:",squash"`
	CategoryID   int64 `mapstructure:"categoryId"`
	ShowPrice    bool  `mapstructure:"showPrice"`
	ShowLocation bool  `mapstructure:"showLocation"`
}

// ListingsGridRenderer lists active listings of the current tenant,
// optionally restricted to one category.
type ListingsGridRenderer struct {
	grid
	listings gateway.Listings
}

func NewListingsGridRenderer(listings gateway.Listings, deps Deps) *ListingsGridRenderer {
	return &ListingsGridRenderer{
		grid:     newGrid("listings", "Listings", "No listings to display yet", deps),
		listings: listings,
	}
}

func (r *ListingsGridRenderer) Type() string { return "listings_grid" }

func (r *ListingsGridRenderer) config(data map[string]any) (listingsGridConfig, bool) {
	cfg := listingsGridConfig{gridConfig: defaultGridConfig(), ShowPrice: true, ShowLocation: true}
	if err := decode(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, cfg.valid() && cfg.CategoryID >= 0
}

func (r *ListingsGridRenderer) Validate(data map[string]any) bool {
	_, ok := r.config(data)
	return ok
}

func (r *ListingsGridRenderer) Render(ctx context.Context, data map[string]any) (template.HTML, error) {
	cfg, _ := r.config(data)
	t, err := r.tenant(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	rows, err := r.listings.SearchListings(ctx, gateway.ListingQuery{
		TenantID:   t.ID,
		CategoryID: cfg.CategoryID,
		OrderBy:    gateway.ListingOrder(cfg.OrderBy),
		Limit:      cfg.Limit,
	})
	r.observe(start, err)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrDataGateway, err)
	}

	cards := make([]Card, 0, len(rows))
	for _, l := range rows {
		kind := choice(l.Type, listingTypes, "offer")
		card := Card{
			ID:          l.ID,
			Title:       l.Title,
			Link:        t.Link("listings", l.ID),
			Image:       l.ImageURL,
			Description: sanitize.Truncate(sanitize.StripTags(l.Description), listingDescriptionLen),
			Badge:       Title(kind),
			BadgeClass:  "pb-badge-" + kind,
			Chip:        l.CategoryName,
		}
		card.Author = l.Author.DisplayName()
		if cfg.ShowPrice {
			card.Meta = append(card.Meta, FormatPrice(l.Price))
		}
		if cfg.ShowLocation && l.Location != "" {
			card.Meta = append(card.Meta, l.Location)
		}
		cards = append(cards, card)
	}

	return r.render(t, cfg.gridConfig, cards)
}
