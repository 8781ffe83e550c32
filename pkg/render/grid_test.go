package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rubiojr/pagebuilder/pkg/core"
	"github.com/rubiojr/pagebuilder/pkg/gateway"
	"github.com/rubiojr/pagebuilder/pkg/tenant"
)

func TestGridNumericBounds(t *testing.T) {
	gw := newFakeGateway()
	renderers := []BlockRenderer{
		NewGroupsGridRenderer(gw, Deps{}),
		NewListingsGridRenderer(gw, Deps{}),
		NewMembersGridRenderer(gw, Deps{}),
		NewEventsGridRenderer(gw, Deps{}),
	}

	tests := []struct {
		name string
		data map[string]any
		want bool
	}{
		{"defaults", map[string]any{}, true},
		{"limit 0", map[string]any{"limit": 0}, false},
		{"limit 101", map[string]any{"limit": 101}, false},
		{"limit 1", map[string]any{"limit": 1}, true},
		{"limit 100", map[string]any{"limit": 100}, true},
		{"limit as string", map[string]any{"limit": "12"}, true},
		{"limit not a number", map[string]any{"limit": "many"}, false},
		{"limit as boolean", map[string]any{"limit": true}, false},
		{"columns as boolean", map[string]any{"columns": false}, false},
		{"columns 5", map[string]any{"columns": 5}, false},
		{"columns 3", map[string]any{"columns": 3}, true},
		{"columns 6", map[string]any{"columns": 6}, true},
		{"unknown order is not a validation error", map[string]any{"orderBy": "password"}, true},
	}

	for _, r := range renderers {
		for _, tt := range tests {
			t.Run(r.Type()+"/"+tt.name, func(t *testing.T) {
				if got := r.Validate(tt.data); got != tt.want {
					t.Errorf("Validate(%v) = %v, want %v", tt.data, got, tt.want)
				}
			})
		}
	}

	listings := NewListingsGridRenderer(gw, Deps{})
	if listings.Validate(map[string]any{"categoryId": -1}) {
		t.Error("expected negative categoryId to fail validation")
	}
}

func TestGridEmptyState(t *testing.T) {
	gw := newFakeGateway()
	ctx := tenantCtx(1, "acme")

	tests := []struct {
		r      BlockRenderer
		family string
	}{
		{NewGroupsGridRenderer(gw, Deps{}), "groups"},
		{NewListingsGridRenderer(gw, Deps{}), "listings"},
		{NewMembersGridRenderer(gw, Deps{}), "members"},
		{NewEventsGridRenderer(gw, Deps{}), "events"},
	}
	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			html := renderBlock(t, ctx, tt.r, map[string]any{})
			assertContains(t, html, `data-empty-state="`+tt.family+`"`)
			assertNotContains(t, html, `class="pb-card"`, "pb-grid-cols")
		})
	}
}

func TestGroupsGrid(t *testing.T) {
	gw := newFakeGateway()
	gw.groups[1] = []gateway.Group{
		{ID: 10, Name: "Gardeners", Description: strings.Repeat("x", 150), MemberCount: 1},
		{ID: 11, Name: "Cyclists", ImageURL: "/img/bikes.png", MemberCount: 12},
	}
	r := NewGroupsGridRenderer(gw, Deps{DefaultImageBase: "https://avatars.test/api/"})

	html := renderBlock(t, tenantCtx(1, "acme"), r, map[string]any{
		"limit":   2,
		"columns": 2,
		"orderBy": "member_count",
		"filter":  "public",
	})

	assertContains(t, html,
		`<div class="pb-grid pb-grid-cols-2">`,
		`href="/acme/groups/10"`,
		`href="/acme/groups/11"`,
		"1 member<",
		"12 members",
		strings.Repeat("x", 100)+"...",
		"https://avatars.test/api/?",
		`src="/img/bikes.png"`,
		`href="/acme/groups"`,
		"View All Groups",
	)
	assertNotContains(t, html, strings.Repeat("x", 101))
	if strings.Index(html, "Gardeners") > strings.Index(html, "Cyclists") {
		t.Error("expected cards in gateway order")
	}

	q := gw.groupQueries[0]
	if q.TenantID != 1 || q.Limit != 2 || q.OrderBy != "member_count" || q.Filter != gateway.GroupsPublic {
		t.Errorf("unexpected query %+v", q)
	}
}

func TestGridOrderAndFilterFallback(t *testing.T) {
	gw := newFakeGateway()
	r := NewGroupsGridRenderer(gw, Deps{})
	renderBlock(t, tenantCtx(1, "acme"), r, map[string]any{
		"orderBy": "name; DROP TABLE groups",
		"filter":  "everything",
	})
	q := gw.groupQueries[0]
	if q.OrderBy != gateway.DefaultGroupOrder || q.Filter != gateway.GroupsAll {
		t.Errorf("expected safe defaults, got %+v", q)
	}
	if err := q.Validate(); err != nil {
		t.Errorf("renderer produced an invalid query: %v", err)
	}
}

func TestGridIgnoresTenantInData(t *testing.T) {
	gw := newFakeGateway()
	gw.members[1] = []gateway.Member{{ID: 1, Person: gateway.Person{FirstName: "Tenant", LastName: "One"}}}
	gw.members[2] = []gateway.Member{{ID: 2, Person: gateway.Person{FirstName: "Tenant", LastName: "Two"}}}
	r := NewMembersGridRenderer(gw, Deps{})

	html := renderBlock(t, tenantCtx(1, "one"), r, map[string]any{"tenantId": 2, "tenant_id": 2})
	assertContains(t, html, "Tenant One")
	assertNotContains(t, html, "Tenant Two")
	if gw.memberQueries[0].TenantID != 1 {
		t.Errorf("expected tenant 1 in query, got %d", gw.memberQueries[0].TenantID)
	}
}

func TestGridRequiresTenant(t *testing.T) {
	gw := newFakeGateway()
	r := NewListingsGridRenderer(gw, Deps{})

	_, err := r.Render(context.Background(), map[string]any{})
	if !errors.Is(err, tenant.ErrNoTenant) {
		t.Fatalf("expected ErrNoTenant, got %v", err)
	}
	if len(gw.listingQueries) != 0 {
		t.Fatal("expected no query without a tenant")
	}
}

func TestGridGatewayError(t *testing.T) {
	gw := newFakeGateway()
	gw.err = errors.New("connection refused")
	r := NewEventsGridRenderer(gw, Deps{})

	_, err := r.Render(tenantCtx(1, "acme"), map[string]any{})
	if !errors.Is(err, core.ErrDataGateway) {
		t.Fatalf("expected ErrDataGateway, got %v", err)
	}
	assertContains(t, string(r.Fallback(nil)), `data-empty-state="events"`)
}

func TestListingsGrid(t *testing.T) {
	gw := newFakeGateway()
	gw.listings[3] = []gateway.Listing{
		{
			ID:           7,
			Title:        "Bike repair",
			Description:  "<p>I can fix <b>flat tyres</b> and brakes for anyone in the neighbourhood who needs help getting back on the road</p>",
			Type:         "request",
			Price:        2,
			Location:     "Riverside",
			CategoryName: "Repairs",
			Author:       gateway.Person{FirstName: "Ana", ProfileType: "organisation", OrganizationName: "Bike Coop"},
		},
		{ID: 8, Title: "Odd type", Type: "<b>weird</b>"},
	}
	r := NewListingsGridRenderer(gw, Deps{})

	html := renderBlock(t, tenantCtx(3, "riverside"), r, map[string]any{"categoryId": "4", "showLocation": false, "showPrice": true})
	assertContains(t, html,
		`href="/riverside/listings/7"`,
		"I can fix flat tyres and brakes",
		"...",
		`class="pb-badge pb-badge-request">Request<`,
		`class="pb-badge pb-badge-offer">Offer<`,
		`<span class="pb-chip">Repairs</span>`,
		`<div class="pb-card-author">Bike Coop</div>`,
		">2<",
	)
	assertNotContains(t, html, "<b>", "Riverside<")
	if gw.listingQueries[0].CategoryID != 4 {
		t.Errorf("expected category 4, got %d", gw.listingQueries[0].CategoryID)
	}
}

func TestListingsGridMetaLimit(t *testing.T) {
	gw := newFakeGateway()
	gw.listings[1] = []gateway.Listing{{
		ID:       1,
		Title:    "Sofa",
		Price:    3,
		Location: "Old Town",
		Author:   gateway.Person{FirstName: "Ben", LastName: "Okafor"},
	}}
	r := NewListingsGridRenderer(gw, Deps{})

	html := renderBlock(t, tenantCtx(1, "acme"), r, map[string]any{"showPrice": true, "showLocation": true})
	if n := strings.Count(html, `class="pb-card-meta"`); n != 2 {
		t.Errorf("expected 2 metadata lines, got %d", n)
	}
	assertContains(t, html, `<div class="pb-card-author">Ben Okafor</div>`, "Old Town")
}

func TestMembersGrid(t *testing.T) {
	gw := newFakeGateway()
	gw.members[1] = []gateway.Member{
		{ID: 5, Person: gateway.Person{FirstName: "Ana", LastName: "López"}, Bio: strings.Repeat("é", 90), Verified: true, Location: "Cork"},
		{ID: 6, Person: gateway.Person{FirstName: "Ben"}, AvatarURL: "/avatars/ben.png"},
	}
	r := NewMembersGridRenderer(gw, Deps{DefaultImageBase: "https://avatars.test/api/"})

	html := renderBlock(t, tenantCtx(1, "acme"), r, map[string]any{"filter": "verified", "orderBy": "last_active_at"})
	assertContains(t, html,
		"Ana López",
		strings.Repeat("é", 80)+"...",
		"Verified",
		"Cork",
		`src="/avatars/ben.png"`,
		`class="pb-avatar"`,
		"background=6366f1",
	)

	q := gw.memberQueries[0]
	if q.Filter != gateway.MembersVerified || q.OrderBy != "last_active_at" {
		t.Errorf("unexpected query %+v", q)
	}

	noAvatars := renderBlock(t, tenantCtx(1, "acme"), r, map[string]any{"showAvatar": false, "showBio": "false"})
	assertNotContains(t, noAvatars, "<img", "ééé")
}

func TestEventsGrid(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	gw := newFakeGateway()
	gw.events[1] = []gateway.Event{
		{ID: 3, Title: "Repair café", StartTime: time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC), Location: "Library"},
		{ID: 4, Title: "Potluck", StartTime: time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC)},
	}
	r := NewEventsGridRenderer(gw, Deps{Now: func() time.Time { return now }})

	html := renderBlock(t, tenantCtx(1, "acme"), r, map[string]any{"filter": "this_week", "orderBy": "title"})
	assertContains(t, html,
		`<span class="pb-card-day">Fri</span>`,
		`<span class="pb-card-date-label">Mar 14</span>`,
		"6:30 PM (in 2 days)",
		"Library",
		"Location TBD",
		"12:00 PM (tomorrow)",
		`href="/acme/events/3"`,
		"View All Events",
	)

	q := gw.eventQueries[0]
	if q.Filter != gateway.EventsThisWeek || q.OrderBy != "title" {
		t.Errorf("unexpected query %+v", q)
	}
}
