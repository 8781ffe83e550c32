// Package gateway defines the read-only, tenant scoped queries data-driven
// blocks run against community data.
//
// Every query carries the tenant id taken from the request context, a filter
// from a fixed set and an ORDER BY key that went through an allow-list.
// Implementations live in pkg/storage; renderers only see the interfaces.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Limits shared by every grid query.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 6
)

// ErrInvalidQuery is returned by Validate for queries that must not reach
// the database.
var ErrInvalidQuery = errors.New("invalid gateway query")

// Person is the display identity of a user: members and listing authors.
type Person struct {
	FirstName        string
	LastName         string
	ProfileType      string
	OrganizationName string
}

// DisplayName returns the organization name for organisation profiles and
// "First Last" otherwise.
func (p Person) DisplayName() string {
	if p.ProfileType == "organisation" && strings.TrimSpace(p.OrganizationName) != "" {
		return strings.TrimSpace(p.OrganizationName)
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Group is one row returned by SearchGroups.
type Group struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	Visibility  string
	MemberCount int
	CreatedAt   time.Time
}

// Listing is one row returned by SearchListings.
type Listing struct {
	ID           int64
	Title        string
	Description  string
	Type         string // offer or request
	Price        float64
	Location     string
	ImageURL     string
	CategoryName string
	Author       Person
	CreatedAt    time.Time
}

// Member is one row returned by SearchMembers.
type Member struct {
	ID           int64
	Person       Person
	Bio          string
	AvatarURL    string
	Location     string
	Verified     bool
	LastActiveAt time.Time
	CreatedAt    time.Time
}

// Event is one row returned by SearchEvents.
type Event struct {
	ID          int64
	Title       string
	Description string
	Location    string
	ImageURL    string
	StartTime   time.Time
}

// GroupQuery selects groups of one tenant.
type GroupQuery struct {
	TenantID int64
	Filter   GroupFilter
	OrderBy  string
	Limit    int
}

// ListingQuery selects active listings of one tenant. CategoryID 0 means
// every category.
type ListingQuery struct {
	TenantID   int64
	CategoryID int64
	OrderBy    string
	Limit      int
}

// MemberQuery selects approved members of one tenant.
type MemberQuery struct {
	TenantID int64
	Filter   MemberFilter
	OrderBy  string
	Limit    int
}

// EventQuery selects events of one tenant.
type EventQuery struct {
	TenantID int64
	Filter   EventFilter
	OrderBy  string
	Limit    int
}

// Groups is implemented by stores that can search groups.
type Groups interface {
	SearchGroups(ctx context.Context, q GroupQuery) ([]Group, error)
}

// Listings is implemented by stores that can search listings.
type Listings interface {
	SearchListings(ctx context.Context, q ListingQuery) ([]Listing, error)
}

// Members is implemented by stores that can search members.
type Members interface {
	SearchMembers(ctx context.Context, q MemberQuery) ([]Member, error)
}

// Events is implemented by stores that can search events.
type Events interface {
	SearchEvents(ctx context.Context, q EventQuery) ([]Event, error)
}

// Gateway aggregates every family query.
type Gateway interface {
	Groups
	Listings
	Members
	Events
}

func validateCommon(tenantID int64, orderBy string, orders map[string]string, limit int) error {
	if tenantID <= 0 {
		return fmt.Errorf("%w: tenant id %d", ErrInvalidQuery, tenantID)
	}
	if limit < MinLimit || limit > MaxLimit {
		return fmt.Errorf("%w: limit %d out of range", ErrInvalidQuery, limit)
	}
	if _, ok := orders[orderBy]; !ok {
		return fmt.Errorf("%w: order %q not allowed", ErrInvalidQuery, orderBy)
	}
	return nil
}

// Validate checks tenant, limit, filter and order of the query.
func (q GroupQuery) Validate() error {
	if !q.Filter.Valid() {
		return fmt.Errorf("%w: group filter %q", ErrInvalidQuery, q.Filter)
	}
	return validateCommon(q.TenantID, q.OrderBy, groupOrders, q.Limit)
}

// Validate checks tenant, limit, category and order of the query.
func (q ListingQuery) Validate() error {
	if q.CategoryID < 0 {
		return fmt.Errorf("%w: category id %d", ErrInvalidQuery, q.CategoryID)
	}
	return validateCommon(q.TenantID, q.OrderBy, listingOrders, q.Limit)
}

// Validate checks tenant, limit, filter and order of the query.
func (q MemberQuery) Validate() error {
	if !q.Filter.Valid() {
		return fmt.Errorf("%w: member filter %q", ErrInvalidQuery, q.Filter)
	}
	return validateCommon(q.TenantID, q.OrderBy, memberOrders, q.Limit)
}

// Validate checks tenant, limit, filter and order of the query.
func (q EventQuery) Validate() error {
	if !q.Filter.Valid() {
		return fmt.Errorf("%w: event filter %q", ErrInvalidQuery, q.Filter)
	}
	return validateCommon(q.TenantID, q.OrderBy, eventOrders, q.Limit)
}
