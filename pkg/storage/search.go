package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rubiojr/pagebuilder/pkg/gateway"
)

// SearchGroups returns groups of q.TenantID with their active member count.
func (s *Store) SearchGroups(ctx context.Context, q gateway.GroupQuery) ([]gateway.Group, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT g.id, g.name, COALESCE(g.description, ''), COALESCE(g.image_url, ''), g.visibility,
			(SELECT COUNT(*) FROM group_members gm
			 WHERE gm.group_id = g.id AND gm.tenant_id = g.tenant_id AND gm.status = 'active') AS member_count,
			g.created_at
		FROM community_groups g
		WHERE g.tenant_id = ?`
	args := []any{q.TenantID}

	switch q.Filter {
	case gateway.GroupsPublic, gateway.GroupsPrivate:
		sqlQuery += ` AND g.visibility = ?`
		args = append(args, string(q.Filter))
	case gateway.GroupsFeatured:
		sqlQuery += ` AND g.is_featured = ?`
		args = append(args, true)
	}
	sqlQuery += ` ORDER BY ` + q.OrderClause() + `, g.id ASC LIMIT ?`
	args = append(args, q.Limit)

	rows, err := s.query(ctx, "groups", sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer s.closeRows(rows)

	groups := make([]gateway.Group, 0, q.Limit)
	for rows.Next() {
		var g gateway.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.ImageURL, &g.Visibility, &g.MemberCount, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// SearchListings returns active listings of q.TenantID with their author
// and category.
func (s *Store) SearchListings(ctx context.Context, q gateway.ListingQuery) ([]gateway.Listing, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT l.id, l.title, COALESCE(l.description, ''), l.type, COALESCE(l.price, 0),
			COALESCE(l.location, ''), COALESCE(l.image_url, ''), COALESCE(c.name, ''),
			u.first_name, u.last_name, u.profile_type, COALESCE(u.organization_name, ''),
			l.created_at
		FROM listings l
		JOIN users u ON u.id = l.user_id AND u.tenant_id = l.tenant_id
		LEFT JOIN categories c ON c.id = l.category_id AND c.tenant_id = l.tenant_id
		WHERE l.tenant_id = ? AND l.status = 'active'`
	args := []any{q.TenantID}

	if q.CategoryID > 0 {
		sqlQuery += ` AND l.category_id = ?`
		args = append(args, q.CategoryID)
	}
	sqlQuery += ` ORDER BY ` + q.OrderClause() + `, l.id ASC LIMIT ?`
	args = append(args, q.Limit)

	rows, err := s.query(ctx, "listings", sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer s.closeRows(rows)

	listings := make([]gateway.Listing, 0, q.Limit)
	for rows.Next() {
		var l gateway.Listing
		err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.Type, &l.Price,
			&l.Location, &l.ImageURL, &l.CategoryName,
			&l.Author.FirstName, &l.Author.LastName, &l.Author.ProfileType, &l.Author.OrganizationName,
			&l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// SearchMembers returns approved members of q.TenantID.
func (s *Store) SearchMembers(ctx context.Context, q gateway.MemberQuery) ([]gateway.Member, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT u.id, u.first_name, u.last_name, u.profile_type, COALESCE(u.organization_name, ''),
			COALESCE(u.bio, ''), COALESCE(u.avatar_url, ''), COALESCE(u.location, ''),
			u.is_verified, u.last_active_at, u.created_at
		FROM users u
		WHERE u.tenant_id = ? AND u.status = 'approved'`
	args := []any{q.TenantID}

	switch q.Filter {
	case gateway.MembersVerified:
		sqlQuery += ` AND u.is_verified = ?`
		args = append(args, true)
	case gateway.MembersFeatured:
		sqlQuery += ` AND u.is_featured = ?`
		args = append(args, true)
	case gateway.MembersActive:
		sqlQuery += ` AND u.last_active_at >= ?`
		args = append(args, dbTime(gateway.ActiveSince(s.now())))
	}
	sqlQuery += ` ORDER BY ` + q.OrderClause() + `, u.id ASC LIMIT ?`
	args = append(args, q.Limit)

	rows, err := s.query(ctx, "members", sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer s.closeRows(rows)

	members := make([]gateway.Member, 0, q.Limit)
	for rows.Next() {
		var m gateway.Member
		var lastActive sql.NullTime
		err := rows.Scan(&m.ID, &m.Person.FirstName, &m.Person.LastName, &m.Person.ProfileType,
			&m.Person.OrganizationName, &m.Bio, &m.AvatarURL, &m.Location,
			&m.Verified, &lastActive, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		if lastActive.Valid {
			m.LastActiveAt = lastActive.Time
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// SearchEvents returns published events of q.TenantID inside the filter's
// time window.
func (s *Store) SearchEvents(ctx context.Context, q gateway.EventQuery) ([]gateway.Event, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	from, to := q.Filter.Window(s.now())
	sqlQuery := `
		SELECT e.id, e.title, COALESCE(e.description, ''), COALESCE(e.location, ''),
			COALESCE(e.image_url, ''), e.start_time
		FROM events e
		WHERE e.tenant_id = ? AND e.status = 'published' AND e.start_time >= ?`
	args := []any{q.TenantID, dbTime(from)}

	if !to.IsZero() {
		sqlQuery += ` AND e.start_time < ?`
		args = append(args, dbTime(to))
	}
	sqlQuery += ` ORDER BY ` + q.OrderClause() + `, e.id ASC LIMIT ?`
	args = append(args, q.Limit)

	rows, err := s.query(ctx, "events", sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer s.closeRows(rows)

	events := make([]gateway.Event, 0, q.Limit)
	for rows.Next() {
		var e gateway.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.ImageURL, &e.StartTime); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
