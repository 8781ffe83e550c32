package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rubiojr/pagebuilder/pkg/core"
	"github.com/rubiojr/pagebuilder/pkg/gateway"
	"github.com/rubiojr/pagebuilder/pkg/pages"
	"github.com/rubiojr/pagebuilder/pkg/render"
)

type memPages map[string]map[string]*core.Page

func (m memPages) Get(t, slug string) (*core.Page, error) {
	p, ok := m[t][slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", pages.ErrNotFound, t, slug)
	}
	return p, nil
}

func (m memPages) List(t string) []string {
	var out []string
	for slug := range m[t] {
		out = append(out, slug)
	}
	return out
}

// tenantGateway returns one member named after the tenant id of each query.
type tenantGateway struct{}

func (tenantGateway) SearchGroups(context.Context, gateway.GroupQuery) ([]gateway.Group, error) {
	return nil, nil
}

func (tenantGateway) SearchListings(context.Context, gateway.ListingQuery) ([]gateway.Listing, error) {
	return nil, errors.New("listings offline")
}

func (tenantGateway) SearchMembers(_ context.Context, q gateway.MemberQuery) ([]gateway.Member, error) {
	return []gateway.Member{{ID: 1, Person: gateway.Person{FirstName: "Member", LastName: fmt.Sprintf("of-%d", q.TenantID)}}}, nil
}

func (tenantGateway) SearchEvents(context.Context, gateway.EventQuery) ([]gateway.Event, error) {
	return nil, nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func setupTestServer(t *testing.T, db Pinger) *http.ServeMux {
	t.Helper()
	reg, err := render.DefaultRegistry(render.Deps{Gateway: tenantGateway{}})
	if err != nil {
		t.Fatal(err)
	}

	store := memPages{
		"one": {
			"home": {Title: "Home", Slug: "home", Blocks: []core.Block{
				core.NewBlock("hero", map[string]any{"title": "Welcome <one>"}),
				core.NewBlock("nope", nil),
				core.NewBlock("members_grid", map[string]any{"tenantId": 2}),
				core.NewBlock("listings_grid", nil),
			}},
		},
		"two": {},
	}
	tenants := Tenants{
		"one": {ID: 1, Slug: "one", Name: "Tenant One", BasePath: "/t/one"},
		"two": {ID: 2, Slug: "two", Name: "Tenant Two", BasePath: "/t/two"},
	}

	mux := http.NewServeMux()
	NewServer(render.NewComposer(reg, nil), store, tenants, db).RegisterRoutes(mux)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandlePage(t *testing.T) {
	mux := setupTestServer(t, nil)

	rec := do(t, mux, "GET", "/t/one/home", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Home | Tenant One</title>",
		"Welcome &lt;one&gt;",
		"<!-- pagebuilder: block 1 (nope) skipped: unknown block type -->",
		"Member of-1",
		"<!-- pagebuilder: block 3 (listings_grid) skipped: render error -->",
		`data-empty-state="listings"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in page", want)
		}
	}
	if strings.Contains(body, "of-2") {
		t.Error("tenant id from block data reached the gateway")
	}
	if strings.Contains(body, "listings offline") {
		t.Error("gateway error text leaked into the page")
	}
	if got := rec.Header().Get("X-Pagebuilder-Skipped"); got != "2" {
		t.Errorf("X-Pagebuilder-Skipped = %q, want 2", got)
	}
}

func TestHandlePageNotFound(t *testing.T) {
	mux := setupTestServer(t, nil)

	for _, path := range []string{"/t/one/missing", "/t/nobody/home", "/t/two/home"} {
		rec := do(t, mux, "GET", path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Not found") {
			t.Errorf("GET %s: expected not found page", path)
		}
	}
}

func TestHandleIndex(t *testing.T) {
	mux := setupTestServer(t, nil)
	rec := do(t, mux, "GET", "/t/one", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `<a href="/t/one/home">home</a>`) {
		t.Errorf("expected page link in index:\n%s", rec.Body.String())
	}
}

func TestHandlePreview(t *testing.T) {
	mux := setupTestServer(t, nil)

	tests := []struct {
		name      string
		path      string
		body      string
		wantCode  int
		wantState string
		wantHTML  string
	}{
		{"button", "/api/t/one/preview", `{"type": "button", "data": {"text": "Join", "url": "/join"}}`, 200, "rendered", `href="/join"`},
		{"invalid data", "/api/t/one/preview", `{"type": "hero", "data": {}}`, 200, "rejected", "skipped: invalid block data"},
		{"tenant scoped", "/api/t/two/preview", `{"type": "members-grid"}`, 200, "rendered", "Member of-2"},
		{"unknown tenant", "/api/t/zzz/preview", `{"type": "spacer"}`, 404, "", ""},
		{"bad json", "/api/t/one/preview", `{`, 400, "", ""},
		{"no type", "/api/t/one/preview", `{"data": {}}`, 400, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, "POST", tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				var resp ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Error == "" {
					t.Fatalf("expected JSON error, got %q (%v)", rec.Body.String(), err)
				}
				return
			}
			var resp PreviewResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Outcome.State != tt.wantState {
				t.Errorf("state = %q, want %q", resp.Outcome.State, tt.wantState)
			}
			if !strings.Contains(resp.HTML, tt.wantHTML) {
				t.Errorf("expected %q in %q", tt.wantHTML, resp.HTML)
			}
		})
	}
}

func TestHandleRender(t *testing.T) {
	mux := setupTestServer(t, nil)
	body := `{"blocks": [{"type": "spacer"}, {"type": "video", "data": {"videoUrl": "https://youtu.be/dQw4w9WgXcQ"}}, {"type": "bogus"}]}`

	rec := do(t, mux, "POST", "/api/t/one/render", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp RenderResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Rendered != 2 || resp.Skipped != 1 || len(resp.Outcomes) != 3 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
	if resp.Outcomes[2].State != "rejected" || resp.Outcomes[2].Type != "bogus" {
		t.Errorf("unexpected outcome: %+v", resp.Outcomes[2])
	}
	if !strings.Contains(resp.HTML, "youtube.com/embed/dQw4w9WgXcQ") {
		t.Error("expected youtube embed in HTML")
	}
}

func TestHandleBlockTypes(t *testing.T) {
	mux := setupTestServer(t, nil)
	rec := do(t, mux, "GET", "/api/blocks", "")
	var resp BlockTypesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 15 {
		t.Errorf("got %d block types, want 15: %v", resp.Count, resp.Types)
	}
}

func TestHandleListPages(t *testing.T) {
	mux := setupTestServer(t, nil)
	rec := do(t, mux, "GET", "/api/t/one/pages", "")
	var resp ListPagesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Tenant != "one" || resp.Count != 1 || resp.Pages[0] != "home" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if rec := do(t, mux, "GET", "/api/t/nobody/pages", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown tenant status = %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		wantCode int
		wantDB   string
	}{
		{"no database", nil, 200, ""},
		{"database ok", fakePinger{}, 200, "ok"},
		{"database down", fakePinger{err: errors.New("down")}, 503, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, setupTestServer(t, tt.db), "GET", "/health", "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Database != tt.wantDB {
				t.Errorf("database = %q, want %q", resp.Database, tt.wantDB)
			}
		})
	}
}

func TestCorsMiddleware(t *testing.T) {
	h := CorsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := do(t, h, "OPTIONS", "/api/blocks", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight: status %d headers %v", rec.Code, rec.Header())
	}
	if rec := do(t, h, "GET", "/api/blocks", ""); rec.Code != http.StatusTeapot {
		t.Fatalf("GET status = %d", rec.Code)
	}
}

func TestTenantsLookup(t *testing.T) {
	tenants := Tenants{"a": {ID: 1, Slug: "a"}, "nil": nil}
	if _, ok := tenants.Lookup("a"); !ok {
		t.Error("expected tenant a")
	}
	if _, ok := tenants.Lookup("nil"); ok {
		t.Error("nil tenant must not resolve")
	}
	if got := tenants.Slugs(); len(got) != 2 || got[0] != "a" {
		t.Errorf("Slugs() = %v", got)
	}
}
