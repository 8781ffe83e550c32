package gateway

import "strings"

// Sort keys accepted from block data, mapped to the ORDER BY clause the SQL
// gateway uses. Column names are aliases defined by the storage queries.
var (
	groupOrders = map[string]string{
		"created_at":   "g.created_at DESC",
		"name":         "g.name ASC",
		"member_count": "member_count DESC",
	}
	listingOrders = map[string]string{
		"created_at": "l.created_at DESC",
		"price":      "l.price ASC",
		"title":      "l.title ASC",
	}
	memberOrders = map[string]string{
		"created_at":     "u.created_at DESC",
		"name":           "u.first_name ASC, u.last_name ASC",
		"last_active_at": "u.last_active_at DESC",
	}
	eventOrders = map[string]string{
		"start_time": "e.start_time ASC",
		"title":      "e.title ASC",
	}
)

// Default sort keys.
const (
	DefaultGroupOrder   = "created_at"
	DefaultListingOrder = "created_at"
	DefaultMemberOrder  = "created_at"
	DefaultEventOrder   = "start_time"
)

func resolveOrder(requested string, allowed map[string]string, fallback string) string {
	key := strings.ToLower(strings.TrimSpace(requested))
	if _, ok := allowed[key]; ok {
		return key
	}
	return fallback
}

// GroupOrder maps a requested sort key to an allowed one.
func GroupOrder(requested string) string {
	return resolveOrder(requested, groupOrders, DefaultGroupOrder)
}

// ListingOrder maps a requested sort key to an allowed one.
func ListingOrder(requested string) string {
	return resolveOrder(requested, listingOrders, DefaultListingOrder)
}

// MemberOrder maps a requested sort key to an allowed one.
func MemberOrder(requested string) string {
	return resolveOrder(requested, memberOrders, DefaultMemberOrder)
}

// EventOrder maps a requested sort key to an allowed one.
func EventOrder(requested string) string {
	return resolveOrder(requested, eventOrders, DefaultEventOrder)
}

// OrderClause returns the ORDER BY clause of a validated query. Unknown keys
// return the default clause of the family, never the key itself.
func (q GroupQuery) OrderClause() string   { return groupOrders[GroupOrder(q.OrderBy)] }
func (q ListingQuery) OrderClause() string { return listingOrders[ListingOrder(q.OrderBy)] }
func (q MemberQuery) OrderClause() string  { return memberOrders[MemberOrder(q.OrderBy)] }
func (q EventQuery) OrderClause() string   { return eventOrders[EventOrder(q.OrderBy)] }

// GroupFilter selects a subset of groups.
type GroupFilter string

const (
	GroupsAll      GroupFilter = "all"
	GroupsPublic   GroupFilter = "public"
	GroupsPrivate  GroupFilter = "private"
	GroupsFeatured GroupFilter = "featured"
)

// Valid reports whether f is a known group filter.
func (f GroupFilter) Valid() bool {
	switch f {
	case GroupsAll, GroupsPublic, GroupsPrivate, GroupsFeatured:
		return true
	}
	return false
}

// ParseGroupFilter returns the filter named by s, or GroupsAll.
func ParseGroupFilter(s string) GroupFilter {
	f := GroupFilter(strings.ToLower(strings.TrimSpace(s)))
	if f.Valid() {
		return f
	}
	return GroupsAll
}

// MemberFilter selects a subset of approved members.
type MemberFilter string

const (
	MembersAll      MemberFilter = "all"
	MembersVerified MemberFilter = "verified"
	MembersFeatured MemberFilter = "featured"
	MembersActive   MemberFilter = "active"
)

// ActiveWindowDays is how recent last_active_at must be for MembersActive.
const ActiveWindowDays = 30

// Valid reports whether f is a known member filter.
func (f MemberFilter) Valid() bool {
	switch f {
	case MembersAll, MembersVerified, MembersFeatured, MembersActive:
		return true
	}
	return false
}

// ParseMemberFilter returns the filter named by s, or MembersAll.
func ParseMemberFilter(s string) MemberFilter {
	f := MemberFilter(strings.ToLower(strings.TrimSpace(s)))
	if f.Valid() {
		return f
	}
	return MembersAll
}

// EventFilter selects a time window of events.
type EventFilter string

const (
	EventsUpcoming  EventFilter = "upcoming"
	EventsThisWeek  EventFilter = "this_week"
	EventsThisMonth EventFilter = "this_month"
)

// Valid reports whether f is a known event filter.
func (f EventFilter) Valid() bool {
	switch f {
	case EventsUpcoming, EventsThisWeek, EventsThisMonth:
		return true
	}
	return false
}

// ParseEventFilter returns the filter named by s, or EventsUpcoming.
func ParseEventFilter(s string) EventFilter {
	f := EventFilter(strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "-", "_"))))
	if f.Valid() {
		return f
	}
	return EventsUpcoming
}
