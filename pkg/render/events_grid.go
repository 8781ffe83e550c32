package render

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/rubiojr/pagebuilder/pkg/core"
	"github.com/rubiojr/pagebuilder/pkg/gateway"
)

// EventsGridRenderer lists upcoming events of the current tenant.
type EventsGridRenderer struct {
	grid
	events gateway.Events
	now    func() time.Time
}

func NewEventsGridRenderer(events gateway.Events, deps Deps) *EventsGridRenderer {
	deps = deps.withDefaults()
	return &EventsGridRenderer{
		grid:   newGrid("events", "Events", "No upcoming events", deps),
		events: events,
		now:    deps.Now,
	}
}

func (r *EventsGridRenderer) Type() string { return "events_grid" }

func (r *EventsGridRenderer) config(data map[string]any) (gridConfig, bool) {
	cfg := defaultGridConfig()
	if err := decode(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, cfg.valid()
}

func (r *EventsGridRenderer) Validate(data map[string]any) bool {
	_, ok := r.config(data)
	return ok
}

func (r *EventsGridRenderer) Render(ctx context.Context, data map[string]any) (template.HTML, error) {
	cfg, _ := r.config(data)
	t, err := r.tenant(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	rows, err := r.events.SearchEvents(ctx, gateway.EventQuery{
		TenantID: t.ID,
		Filter:   gateway.ParseEventFilter(cfg.Filter),
		OrderBy:  gateway.EventOrder(cfg.OrderBy),
		Limit:    cfg.Limit,
	})
	r.observe(start, err)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrDataGateway, err)
	}

	now := r.now()
	cards := make([]Card, 0, len(rows))
	for _, e := range rows {
		location := e.Location
		if location == "" {
			location = "Location TBD"
		}
		cards = append(cards, Card{
			ID:    e.ID,
			Title: e.Title,
			Link:  t.Link("events", e.ID),
			Image: e.ImageURL,
			Date:  &CardDate{Day: e.StartTime.Format("Mon"), Label: e.StartTime.Format("Jan 2")},
			Meta: []string{
				e.StartTime.Format("3:04 PM") + " (" + FormatRelative(e.StartTime, now) + ")",
				location,
			},
		})
	}

	return r.render(t, cfg, cards)
}
