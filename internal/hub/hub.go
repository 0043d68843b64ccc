// Package hub streams pipeline trace entries to WebSocket clients.
package hub

import (
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wutway/helpdesk/internal/trace"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans the trace log out to connected WebSocket clients. Each
// client holds its own subscription, so a slow client only drops its
// own entries.
type Hub struct {
	trace *trace.Log

	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

func NewHub(tr *trace.Log) *Hub {
	return &Hub{
		trace: tr,
		conns: make(map[string]*websocket.Conn),
	}
}

// Serve upgrades the request and streams trace entries until the
// client disconnects. The replay of the current snapshot comes first
// so a late client still sees the full pipeline run.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	id := uuid.New().String()
	h.mu.Lock()
	h.conns[id] = ws
	h.mu.Unlock()
	log.Printf("Trace client connected: %s", id)

	entries, cancel := h.trace.Subscribe()

	// Drain reads so close frames and pings are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for _, entry := range h.trace.Snapshot() {
		if err := ws.WriteJSON(entry); err != nil {
			h.drop(id, cancel)
			return nil
		}
	}

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				h.drop(id, cancel)
				return nil
			}
			if err := ws.WriteJSON(entry); err != nil {
				h.drop(id, cancel)
				return nil
			}
		case <-done:
			h.drop(id, cancel)
			return nil
		}
	}
}

// ConnectionCount returns the number of connected trace clients.
func (h *Hub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// CloseAll disconnects every client. Used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ws := range h.conns {
		ws.Close()
		delete(h.conns, id)
	}
}

func (h *Hub) drop(id string, cancel func()) {
	cancel()
	h.mu.Lock()
	if ws, ok := h.conns[id]; ok {
		ws.Close()
		delete(h.conns, id)
	}
	h.mu.Unlock()
	log.Printf("Trace client disconnected: %s", id)
}
