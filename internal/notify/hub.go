// Package notify streams guard notifications to websocket subscribers.
package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tokenguard/internal/domain"
)

const (
	writeTimeout = 10 * time.Second

	// sendBuffer is the per-client queue; clients that fall this far
	// behind are dropped rather than stalling the broadcast.
	sendBuffer = 64
)

// Hub fans guard notifications out to connected websocket clients.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub with no connected clients.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and subscribes the connection to the
// notification stream. Inbound messages are read and discarded; the
// stream is one-way.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("notify: upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

// Broadcast queues a notification for every connected client. Clients
// whose queue is full are disconnected.
func (h *Hub) Broadcast(n domain.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Printf("notify: marshal notification: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.dropLocked(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients and rejects future subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) writePump(c *client) {
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			break
		}
	}
	c.conn.Close()
}

func (h *Hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	h.dropLocked(c)
	h.mu.Unlock()
}
