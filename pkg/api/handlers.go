package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rubiojr/pagebuilder/pkg/core"
	"github.com/rubiojr/pagebuilder/pkg/pages"
	"github.com/rubiojr/pagebuilder/pkg/version"
	"github.com/rubiojr/pagebuilder/pkg/web"
)

func (s *Server) HandlePage(w http.ResponseWriter, r *http.Request) {
	t, ctx, ok := s.tenantFor(r)
	if !ok {
		s.notFound(w, r, "Unknown community.")
		return
	}

	slug := r.PathValue("slug")
	page, err := s.pages.Get(t.Slug, slug)
	if err != nil {
		if !errors.Is(err, pages.ErrNotFound) {
			s.logger.Errorf("loading page %s/%s: %v", t.Slug, slug, err)
		}
		s.notFound(w, r, "")
		return
	}

	res, err := s.composer.Compose(ctx, page.Blocks)
	if err != nil {
		// Only a cancelled request gets here.
		s.logger.Debugf("page %s/%s not rendered: %v", t.Slug, slug, err)
		return
	}
	counts := res.Counts()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Pagebuilder-Skipped", strconv.Itoa(counts[core.StateRejected]+counts[core.StateFailed]))
	data := web.PageData{
		Title:      page.Title,
		TenantName: t.Name,
		TenantSlug: t.Slug,
		BasePath:   t.BasePath,
		Body:       res.HTML,
		LiveURL:    s.livePath(t.Slug),
		Version:    version.APIVersion(),
	}
	if err := web.Page(data).Render(ctx, w); err != nil {
		s.logger.Errorf("writing page %s/%s: %v", t.Slug, slug, err)
	}
}

func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	t, ctx, ok := s.tenantFor(r)
	if !ok {
		s.notFound(w, r, "Unknown community.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := web.PageData{
		Title:      t.Name,
		TenantName: t.Name,
		TenantSlug: t.Slug,
		BasePath:   t.BasePath,
		Pages:      s.pages.List(t.Slug),
		LiveURL:    s.livePath(t.Slug),
		Version:    version.APIVersion(),
	}
	if err := web.Index(data).Render(ctx, w); err != nil {
		s.logger.Errorf("writing index of %s: %v", t.Slug, err)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := web.NotFound(web.PageData{Error: message, Version: version.APIVersion()}).Render(r.Context(), w); err != nil {
		s.logger.Errorf("writing not found page: %v", err)
	}
}

func (s *Server) HandleBlockTypes(w http.ResponseWriter, r *http.Request) {
	types := s.composer.Registry().Types()
	s.writeJSON(w, http.StatusOK, BlockTypesResponse{Types: types, Count: len(types)})
}

func (s *Server) HandleListPages(w http.ResponseWriter, r *http.Request) {
	t, _, ok := s.tenantFor(r)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Unknown tenant", fmt.Sprintf("tenant %q is not configured", r.PathValue("tenant")))
		return
	}

	slugs := s.pages.List(t.Slug)
	s.writeJSON(w, http.StatusOK, ListPagesResponse{Tenant: t.Slug, Pages: slugs, Count: len(slugs)})
}

// HandlePreview renders one block posted as {"type": "...", "data": {...}}.
func (s *Server) HandlePreview(w http.ResponseWriter, r *http.Request) {
	_, ctx, ok := s.tenantFor(r)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Unknown tenant", fmt.Sprintf("tenant %q is not configured", r.PathValue("tenant")))
		return
	}

	var block core.Block
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&block); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid block", err.Error())
		return
	}
	if block.Type == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid block", "block type is required")
		return
	}
	block = core.NewBlock(block.Type, block.Data)

	html, outcome := s.composer.Preview(ctx, block)
	s.writeJSON(w, http.StatusOK, PreviewResponse{HTML: string(html), Outcome: outcomeResponse(outcome)})
}

// HandleRender renders an unsaved block list posted as {"blocks": [...]}.
func (s *Server) HandleRender(w http.ResponseWriter, r *http.Request) {
	_, ctx, ok := s.tenantFor(r)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Unknown tenant", fmt.Sprintf("tenant %q is not configured", r.PathValue("tenant")))
		return
	}

	var req RenderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	for i, b := range req.Blocks {
		req.Blocks[i] = core.NewBlock(b.Type, b.Data)
	}

	res, err := s.composer.Compose(ctx, req.Blocks)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "Render cancelled", err.Error())
		return
	}

	resp := RenderResponse{HTML: string(res.HTML), Outcomes: make([]OutcomeResponse, 0, len(res.Outcomes))}
	for _, o := range res.Outcomes {
		resp.Outcomes = append(resp.Outcomes, outcomeResponse(o))
		if o.State == core.StateRendered {
			resp.Rendered++
		} else {
			resp.Skipped++
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	status := http.StatusOK
	if s.db != nil {
		health.Database = "ok"
		if err := s.db.Ping(r.Context()); err != nil {
			s.logger.Warnf("health check: database ping failed: %v", err)
			health.Status = "degraded"
			health.Database = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	s.writeJSON(w, status, health)
}
