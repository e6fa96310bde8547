// Package server is the console's web surface: an HTTP server exposing the
// websocket push channel, the sightings API and plugin client resources.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans console snapshots out to connected websocket clients. A client
// receives the latest snapshot on connect and every broadcast afterwards.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	latest  []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

// HandleWebSocket upgrades the request and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "error", err)
		return
	}

	// The snapshot write and the registration happen under the lock so the
	// write cannot interleave with a Broadcast; the connection allows only
	// one writer at a time.
	h.mu.Lock()
	if h.latest != nil {
		if err := conn.WriteMessage(websocket.TextMessage, h.latest); err != nil {
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	go h.readPump(conn)
}

// Broadcast marshals v, stores it as the latest snapshot, and writes it to
// every client. Clients that fail to accept the write are dropped.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal snapshot", "error", err)
		return
	}

	h.mu.Lock()
	h.latest = data
	for c := range h.clients {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			c.Close()
			delete(h.clients, c)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.Close()
}

// readPump drains (and discards) client messages until the connection dies.
func (h *Hub) readPump(c *websocket.Conn) {
	defer h.remove(c)
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
