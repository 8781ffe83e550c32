package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedTenant identifies the tenant demo data is written for.
type SeedTenant struct {
	ID   int64
	Slug string
	Name string
}

type seedUser struct {
	first, last, profile, org, bio, location string
	status                                   string
	verified, featured                       bool
	activeDaysAgo                            int
}

var demoUsers = []seedUser{
	{"Ana", "López", "individual", "", "Retired teacher offering language lessons and garden help.", "Old Town", "approved", true, true, 2},
	{"Ben", "Okafor", "individual", "", "Bike mechanic. Happy to fix your brakes for an hour of cooking.", "Riverside", "approved", true, false, 5},
	{"Chen", "Wei", "individual", "", "Software developer learning to bake bread.", "Harbour", "approved", false, false, 45},
	{"", "", "organisation", "Riverside Food Bank", "Community food bank run by volunteers.", "Riverside", "approved", true, true, 1},
	{"Dara", "Quinn", "individual", "", "Musician and part-time carpenter.", "Hillside", "approved", false, false, 90},
	{"Eve", "Pending", "individual", "", "Waiting for approval.", "Old Town", "pending", false, false, 0},
}

type seedGroup struct {
	name, description, visibility string
	featured                      bool
	members                       []int
}

var demoGroups = []seedGroup{
	{"Community Gardeners", "Neighbours who share plots, seeds and tools across town.", "public", true, []int{0, 1, 2, 4}},
	{"Repair Café", "Monthly meetup to fix bikes, lamps and clothes instead of throwing them away.", "public", false, []int{1, 2}},
	{"Parents Circle", "A closed group for parents swapping childcare hours.", "private", false, []int{0, 4}},
	{"Choir", "We sing on Thursdays. Everyone welcome.", "public", false, nil},
}

type seedListing struct {
	user, category           int
	title, description, kind string
	price                    float64
	location                 string
	status                   string
	ageDays                  int
}

var demoCategories = []string{"Home & Garden", "Lessons", "Repairs"}

var demoListings = []seedListing{
	{0, 1, "Spanish conversation lessons", "Weekly one-hour conversation practice for beginners and intermediate learners. Bring your questions and a cup of tea.", "offer", 0, "Old Town", "active", 1},
	{1, 2, "Bike tune-up", "Brakes, gears and a general safety check for any bicycle.", "offer", 1, "Riverside", "active", 3},
	{2, 0, "Help moving a sofa", "Looking for two people to help carry a sofa up three floors.", "request", 2, "Harbour", "active", 6},
	{3, 0, "Surplus vegetables", "Free fresh vegetables every Friday afternoon.", "offer", 0, "Riverside", "active", 2},
	{4, 2, "Fix a wobbly table", "Old oak table needs new joints.", "request", 1.5, "Hillside", "active", 10},
	{0, 1, "Piano lessons", "No longer available.", "offer", 1, "Old Town", "closed", 20},
}

type seedEvent struct {
	title, description, location string
	inHours                      int
	status                       string
}

var demoEvents = []seedEvent{
	{"Seed swap", "Bring seeds, take seeds.", "Community Hall", 30, "published"},
	{"Repair Café", "Bring anything broken.", "Library basement", 24 * 5, "published"},
	{"Choir rehearsal", "Open rehearsal for newcomers.", "", 24 * 20, "published"},
	{"Summer picnic", "Draft event.", "Riverside Park", 24 * 40, "draft"},
	{"Last month's clean-up", "Already happened.", "Harbour", -24 * 10, "published"},
}

// Seed writes a small demo community for t: members, groups, listings and
// events. It runs in one transaction and fails if the tenant was already
// seeded.
func (s *Store) Seed(ctx context.Context, t SeedTenant) error {
	if t.ID <= 0 {
		return fmt.Errorf("seeding tenant %q: invalid id %d", t.Slug, t.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				s.logger.Warnf("failed to rollback seed transaction: %v", err)
			}
		}
	}()

	now := s.now()
	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, s.rebind(query), args...)
		return err
	}
	insert := func(query string, args ...any) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx, s.rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	var existing int
	if err := tx.QueryRowContext(ctx, s.rebind("SELECT COUNT(*) FROM tenants WHERE id = ?"), t.ID).Scan(&existing); err != nil {
		return fmt.Errorf("checking tenant %d: %w", t.ID, err)
	}
	if existing > 0 {
		return fmt.Errorf("tenant %d (%s) already exists", t.ID, t.Slug)
	}
	if err := exec("INSERT INTO tenants (id, slug, name) VALUES (?, ?, ?)", t.ID, t.Slug, t.Name); err != nil {
		return fmt.Errorf("inserting tenant: %w", err)
	}

	userIDs := make([]int64, len(demoUsers))
	for i, u := range demoUsers {
		var lastActive sql.NullTime
		if u.activeDaysAgo > 0 {
			lastActive = sql.NullTime{Time: dbTime(now.AddDate(0, 0, -u.activeDaysAgo)), Valid: true}
		}
		id, err := insert(`INSERT INTO users (tenant_id, first_name, last_name, profile_type, organization_name,
			bio, location, status, is_verified, is_featured, last_active_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, u.first, u.last, u.profile, nullString(u.org), u.bio, u.location, u.status,
			u.verified, u.featured, lastActive, dbTime(now.AddDate(0, 0, -100+i)))
		if err != nil {
			return fmt.Errorf("inserting user %d: %w", i, err)
		}
		userIDs[i] = id
	}

	for i, g := range demoGroups {
		groupID, err := insert(`INSERT INTO community_groups (tenant_id, name, description, visibility, is_featured, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, g.name, g.description, g.visibility, g.featured, dbTime(now.AddDate(0, 0, -30+i)))
		if err != nil {
			return fmt.Errorf("inserting group %q: %w", g.name, err)
		}
		for _, member := range g.members {
			if err := exec("INSERT INTO group_members (group_id, user_id, tenant_id, status) VALUES (?, ?, ?, 'active')",
				groupID, userIDs[member], t.ID); err != nil {
				return fmt.Errorf("inserting group member: %w", err)
			}
		}
	}

	categoryIDs := make([]int64, len(demoCategories))
	for i, name := range demoCategories {
		id, err := insert("INSERT INTO categories (tenant_id, name) VALUES (?, ?)", t.ID, name)
		if err != nil {
			return fmt.Errorf("inserting category %q: %w", name, err)
		}
		categoryIDs[i] = id
	}

	for _, l := range demoListings {
		_, err := insert(`INSERT INTO listings (tenant_id, user_id, category_id, title, description, type, price,
			location, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, userIDs[l.user], categoryIDs[l.category], l.title, l.description, l.kind, l.price,
			l.location, l.status, dbTime(now.AddDate(0, 0, -l.ageDays)))
		if err != nil {
			return fmt.Errorf("inserting listing %q: %w", l.title, err)
		}
	}

	for _, e := range demoEvents {
		_, err := insert(`INSERT INTO events (tenant_id, title, description, location, status, start_time)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, e.title, e.description, nullString(e.location), e.status,
			dbTime(now.Add(time.Duration(e.inHours)*time.Hour)))
		if err != nil {
			return fmt.Errorf("inserting event %q: %w", e.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	committed = true
	s.logger.Infof("seeded tenant %s (%d)", t.Slug, t.ID)
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
