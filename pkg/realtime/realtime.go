// Package realtime fans out page change events to live preview sessions.
//
// The hub is in-process and ephemeral: events are not persisted and a
// listener that falls behind loses events rather than slowing down the
// page watcher.
package realtime

import (
	"sync"
	"time"
)

// Event types.
const (
	EventReload = "reload"
	EventError  = "error"
)

// PageEvent tells the editors of a tenant that its pages changed.
type PageEvent struct {
	Type   string    `json:"type"`
	Tenant string    `json:"tenant"`
	Pages  []string  `json:"pages,omitempty"`
	Error  string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}

// Hub is an in-memory fan-out dispatcher. Each listener receives events on
// its own buffered channel. When a listener's buffer is full the event is
// dropped for that listener only.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan PageEvent
	nextID    uint64
	bufSize   int
}

// NewHub returns a hub with the given per-listener buffer size. A size of
// zero or less means 16.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Hub{
		listeners: make(map[uint64]chan PageEvent),
		bufSize:   bufSize,
	}
}

// Register adds a listener. Callers must Unregister the returned id.
func (h *Hub) Register() (uint64, <-chan PageEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan PageEvent, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers ev to every listener, best effort.
func (h *Hub) Broadcast(ev PageEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
			// slow listener
		}
	}
}

// Size returns the number of registered listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// PageLister is the part of the page store the reload notifier needs.
type PageLister interface {
	Tenants() []string
	List(tenant string) []string
}

// ReloadNotifier returns a callback for pages.Store.Watch that broadcasts a
// reload event for every tenant after each reload attempt. Failed reloads
// are broadcast as error events so editors see why nothing changed.
func ReloadNotifier(h *Hub, pages PageLister) func(error) {
	return func(err error) {
		for _, tenant := range pages.Tenants() {
			ev := PageEvent{Type: EventReload, Tenant: tenant, Pages: pages.List(tenant)}
			if err != nil {
				ev.Type = EventError
				ev.Error = err.Error()
			}
			h.Broadcast(ev)
		}
	}
}
