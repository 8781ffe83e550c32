// Package tenant carries the ambient tenant of a request through a
// context.Context. Data-driven block renderers read the tenant from here and
// nowhere else; block data never selects a tenant.
package tenant

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// Tenant is the request-scoped view of a community the page belongs to.
type Tenant struct {
	ID       int64
	Slug     string
	Name     string
	BasePath string // prefix for absolute links, e.g. "/hour-timebank"
}

type contextKey struct{}

// ErrNoTenant is returned when no tenant is present in the context.
var ErrNoTenant = errors.New("no tenant in context")

// ErrInvalidTenant is returned for a tenant without a positive ID.
var ErrInvalidTenant = errors.New("invalid tenant")

// WithTenant stores t in ctx.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext returns the tenant stored in ctx.
func FromContext(ctx context.Context) (*Tenant, error) {
	t, ok := ctx.Value(contextKey{}).(*Tenant)
	if !ok || t == nil {
		return nil, ErrNoTenant
	}
	if t.ID <= 0 {
		return nil, ErrInvalidTenant
	}
	return t, nil
}

// Link joins the tenant base path with the given path segments.
//
//	t.Link("groups", 12) // "/hour-timebank/groups/12"
func (t *Tenant) Link(segments ...any) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(t.BasePath, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		switch v := s.(type) {
		case string:
			b.WriteString(strings.Trim(v, "/"))
		case int64:
			b.WriteString(strconv.FormatInt(v, 10))
		case int:
			b.WriteString(strconv.Itoa(v))
		}
	}
	return b.String()
}
