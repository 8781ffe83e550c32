package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/pagebuilder/pkg/realtime"
)

const (
	liveWriteWait  = 10 * time.Second
	livePingPeriod = 30 * time.Second
	livePongWait   = livePingPeriod + 10*time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Pages are public and the stream only carries page slugs.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetHub enables the live reload stream. Without a hub the live endpoint
// answers 404 and pages are served without the reload script.
func (s *Server) SetHub(h *realtime.Hub) {
	s.hub = h
}

// LiveInit is the first message sent on a live connection.
type LiveInit struct {
	Type   string   `json:"type"`
	Tenant string   `json:"tenant"`
	Pages  []string `json:"pages"`
	Count  int      `json:"count"`
}

// HandleLive streams page change events of one tenant over a websocket.
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		s.writeError(w, http.StatusNotFound, "Live reload disabled", "the server is not watching page files")
		return
	}
	t, _, ok := s.tenantFor(r)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Unknown tenant", fmt.Sprintf("tenant %q is not configured", r.PathValue("tenant")))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Debugf("live upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	id, events := s.hub.Register()
	defer s.hub.Unregister(id)
	s.logger.Debugf("live session %d opened for %s (%d listeners)", id, t.Slug, s.hub.Size())

	slugs := s.pages.List(t.Slug)
	if err := s.writeLive(conn, LiveInit{Type: "init", Tenant: t.Slug, Pages: slugs, Count: len(slugs)}); err != nil {
		return
	}

	// The read loop only handles control frames and notices the close.
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(livePingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			s.logger.Debugf("live session %d closed", id)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Tenant != t.Slug {
				continue
			}
			if err := s.writeLive(conn, ev); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeLive(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	if err := conn.WriteJSON(v); err != nil {
		s.logger.Debugf("live write failed: %v", err)
		return err
	}
	return nil
}

func (s *Server) livePath(tenantSlug string) string {
	if s.hub == nil {
		return ""
	}
	return "/api/t/" + tenantSlug + "/live"
}
