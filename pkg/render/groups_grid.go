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

type groupsGridConfig struct {
	gridConfig      `mapstructure:",squash"`
	ShowDescription bool `mapstructure:"showDescription"`
	ShowMemberCount bool `mapstructure:"showMemberCount"`
}

// GroupsGridRenderer lists the groups of the current tenant.
type GroupsGridRenderer struct {
	grid
	groups gateway.Groups
}

func NewGroupsGridRenderer(groups gateway.Groups, deps Deps) *GroupsGridRenderer {
	return &GroupsGridRenderer{
		grid:   newGrid("groups", "Groups", "No groups to display yet", deps),
		groups: groups,
	}
}

func (r *GroupsGridRenderer) Type() string { return "groups_grid" }

func (r *GroupsGridRenderer) config(data map[string]any) (groupsGridConfig, bool) {
	cfg := groupsGridConfig{gridConfig: defaultGridConfig(), ShowDescription: true, ShowMemberCount: true}
	if err := decode(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, cfg.valid()
}

func (r *GroupsGridRenderer) Validate(data map[string]any) bool {
	_, ok := r.config(data)
	return ok
}

func (r *GroupsGridRenderer) Render(ctx context.Context, data map[string]any) (template.HTML, error) {
	cfg, _ := r.config(data)
	t, err := r.tenant(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	rows, err := r.groups.SearchGroups(ctx, gateway.GroupQuery{
		TenantID: t.ID,
		Filter:   gateway.ParseGroupFilter(cfg.Filter),
		OrderBy:  gateway.GroupOrder(cfg.OrderBy),
		Limit:    cfg.Limit,
	})
	r.observe(start, err)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrDataGateway, err)
	}

	cards := make([]Card, 0, len(rows))
	for _, g := range rows {
		card := Card{
			ID:    g.ID,
			Title: g.Name,
			Link:  t.Link("groups", g.ID),
			Image: g.ImageURL,
		}
		if card.Image == "" {
			card.Image = r.defaultImage(g.Name, "8b5cf6", 200)
		}
		if cfg.ShowMemberCount {
			card.Meta = append(card.Meta, fmt.Sprintf("%d member%s", g.MemberCount, Plural(g.MemberCount)))
		}
		if cfg.ShowDescription {
			card.Description = sanitize.Truncate(g.Description, groupDescriptionLen)
		}
		cards = append(cards, card)
	}

	return r.render(t, cfg.gridConfig, cards)
}
