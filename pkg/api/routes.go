package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Public pages
	mux.HandleFunc("GET /t/{tenant}", s.HandleIndex)
	mux.HandleFunc("GET /t/{tenant}/{slug}", s.HandlePage)

	// API routes with method-specific routing
	mux.HandleFunc("GET /api/blocks", s.HandleBlockTypes)
	mux.HandleFunc("GET /api/t/{tenant}/pages", s.HandleListPages)
	mux.HandleFunc("POST /api/t/{tenant}/preview", s.HandlePreview)
	mux.HandleFunc("POST /api/t/{tenant}/render", s.HandleRender)
	mux.HandleFunc("GET /api/t/{tenant}/live", s.HandleLive)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
