// Package api serves composed pages and the block preview endpoint over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/rubiojr/pagebuilder/pkg/core"
	"github.com/rubiojr/pagebuilder/pkg/log"
	"github.com/rubiojr/pagebuilder/pkg/realtime"
	"github.com/rubiojr/pagebuilder/pkg/render"
	"github.com/rubiojr/pagebuilder/pkg/tenant"
)

// maxBodyBytes bounds preview and render request bodies.
const maxBodyBytes = 1 << 20

// PageSource is where page definitions come from. *pages.Store implements it.
type PageSource interface {
	Get(tenant, slug string) (*core.Page, error)
	List(tenant string) []string
}

// Pinger reports database health. *storage.Store implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Tenants maps URL slugs to tenants. Requests for slugs not in the map are
// answered with 404 and never reach a renderer.
type Tenants map[string]*tenant.Tenant

// Lookup returns the tenant for slug.
func (t Tenants) Lookup(slug string) (*tenant.Tenant, bool) {
	tn, ok := t[slug]
	return tn, ok && tn != nil
}

// Slugs returns the known tenant slugs, sorted.
func (t Tenants) Slugs() []string {
	out := make([]string, 0, len(t))
	for slug := range t {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

type Server struct {
	composer *render.Composer
	pages    PageSource
	tenants  Tenants
	db       Pinger
	hub      *realtime.Hub
	logger   *log.Logger
}

// NewServer returns a server rendering pages from pages with composer. db
// may be nil when no gateway is configured.
func NewServer(composer *render.Composer, pages PageSource, tenants Tenants, db Pinger) *Server {
	return &Server{
		composer: composer,
		pages:    pages,
		tenants:  tenants,
		db:       db,
		logger:   log.ForService("api"),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

// tenantFor resolves the {tenant} path value and returns a request context
// carrying it.
func (s *Server) tenantFor(r *http.Request) (*tenant.Tenant, context.Context, bool) {
	t, ok := s.tenants.Lookup(r.PathValue("tenant"))
	if !ok {
		return nil, nil, false
	}
	return t, tenant.WithTenant(r.Context(), t), true
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
