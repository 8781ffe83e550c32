package render

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rubiojr/pagebuilder/pkg/gateway"
	"github.com/rubiojr/pagebuilder/pkg/tenant"
)

// fakeGateway serves canned rows keyed by tenant id and records queries.
type fakeGateway struct {
	mu       sync.Mutex
	groups   map[int64][]gateway.Group
	listings map[int64][]gateway.Listing
	members  map[int64][]gateway.Member
	events   map[int64][]gateway.Event
	err      error

	groupQueries   []gateway.GroupQuery
	listingQueries []gateway.ListingQuery
	memberQueries  []gateway.MemberQuery
	eventQueries   []gateway.EventQuery
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		groups:   map[int64][]gateway.Group{},
		listings: map[int64][]gateway.Listing{},
		members:  map[int64][]gateway.Member{},
		events:   map[int64][]gateway.Event{},
	}
}

func limitRows[T any](rows []T, n int) []T {
	if n < len(rows) {
		return rows[:n]
	}
	return rows
}

func (f *fakeGateway) SearchGroups(_ context.Context, q gateway.GroupQuery) ([]gateway.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupQueries = append(f.groupQueries, q)
	if f.err != nil {
		return nil, f.err
	}
	return limitRows(f.groups[q.TenantID], q.Limit), nil
}

func (f *fakeGateway) SearchListings(_ context.Context, q gateway.ListingQuery) ([]gateway.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listingQueries = append(f.listingQueries, q)
	if f.err != nil {
		return nil, f.err
	}
	return limitRows(f.listings[q.TenantID], q.Limit), nil
}

func (f *fakeGateway) SearchMembers(_ context.Context, q gateway.MemberQuery) ([]gateway.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberQueries = append(f.memberQueries, q)
	if f.err != nil {
		return nil, f.err
	}
	return limitRows(f.members[q.TenantID], q.Limit), nil
}

func (f *fakeGateway) SearchEvents(_ context.Context, q gateway.EventQuery) ([]gateway.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eventQueries = append(f.eventQueries, q)
	if f.err != nil {
		return nil, f.err
	}
	return limitRows(f.events[q.TenantID], q.Limit), nil
}

func tenantCtx(id int64, slug string) context.Context {
	return tenant.WithTenant(context.Background(), &tenant.Tenant{ID: id, Slug: slug, BasePath: "/" + slug})
}

// sequentialIDs returns an id generator producing kind-1, kind-2, ...
func sequentialIDs() func(string) string {
	var mu sync.Mutex
	n := 0
	return func(kind string) string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", kind, n)
	}
}

func renderBlock(t *testing.T, ctx context.Context, r BlockRenderer, data map[string]any) string {
	t.Helper()
	if !r.Validate(data) {
		t.Fatalf("%s: expected data to validate: %v", r.Type(), data)
	}
	html, err := r.Render(ctx, data)
	if err != nil {
		t.Fatalf("%s: unexpected render error: %v", r.Type(), err)
	}
	return string(html)
}

func assertContains(t *testing.T, html string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(html, w) {
			t.Errorf("expected %q in output:\n%s", w, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, unwanted ...string) {
	t.Helper()
	for _, w := range unwanted {
		if strings.Contains(html, w) {
			t.Errorf("did not expect %q in output:\n%s", w, html)
		}
	}
}
