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

type membersGridConfig struct {
	gridConfig `mapstructure:",squash"`
	ShowBio    bool `mapstructure:"showBio"`
	ShowAvatar bool `mapstructure:"showAvatar"`
}

// MembersGridRenderer lists approved members of the current tenant.
type MembersGridRenderer struct {
	grid
	members gateway.Members
}

func NewMembersGridRenderer(members gateway.Members, deps Deps) *MembersGridRenderer {
	return &MembersGridRenderer{
		grid:    newGrid("members", "Members", "No members to display yet", deps),
		members: members,
	}
}

func (r *MembersGridRenderer) Type() string { return "members_grid" }

func (r *MembersGridRenderer) config(data map[string]any) (membersGridConfig, bool) {
	cfg := membersGridConfig{gridConfig: defaultGridConfig(), ShowBio: true, ShowAvatar: true}
	if err := decode(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, cfg.valid()
}

func (r *MembersGridRenderer) Validate(data map[string]any) bool {
	_, ok := r.config(data)
	return ok
}

func (r *MembersGridRenderer) Render(ctx context.Context, data map[string]any) (template.HTML, error) {
	cfg, _ := r.config(data)
	t, err := r.tenant(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	rows, err := r.members.SearchMembers(ctx, gateway.MemberQuery{
		TenantID: t.ID,
		Filter:   gateway.ParseMemberFilter(cfg.Filter),
		OrderBy:  gateway.MemberOrder(cfg.OrderBy),
		Limit:    cfg.Limit,
	})
	r.observe(start, err)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrDataGateway, err)
	}

	cards := make([]Card, 0, len(rows))
	for _, m := range rows {
		name := m.Person.DisplayName()
		card := Card{
			ID:    m.ID,
			Title: name,
			Link:  t.Link("members", m.ID),
			Round: true,
		}
		if cfg.ShowAvatar {
			card.Image = m.AvatarURL
			if card.Image == "" {
				card.Image = r.defaultImage(name, "6366f1", 0)
			}
		}
		if m.Verified {
			card.Badge = "Verified"
			card.BadgeClass = "pb-badge-verified"
		}
		if m.Location != "" {
			card.Meta = append(card.Meta, m.Location)
		}
		if cfg.ShowBio {
			card.Description = sanitize.Truncate(m.Bio, memberBioLen)
		}
		cards = append(cards, card)
	}

	return r.render(t, cfg.gridConfig, cards)
}
