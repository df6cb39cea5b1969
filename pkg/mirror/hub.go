package mirror

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub fans encoded frames out to connected websocket clients.
// Each client has a bounded send queue; a client whose queue is full is
// dropped rather than allowed to stall the broadcaster.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	config *Config
	logger *slog.Logger
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub. A nil config uses DefaultConfig().
func NewHub(config *Config) *Hub {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.resolve()
	return &Hub{
		clients: make(map[*client]struct{}),
		config:  config,
		logger:  config.Logger,
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// add registers conn, queues first (if any) ahead of every later broadcast
// and starts the client's loops. It returns false when the hub is closed.
func (h *Hub) add(conn *websocket.Conn, first []byte) bool {
	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.config.SendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return false
	}
	h.clients[c] = struct{}{}
	if first != nil {
		c.send <- first
	}
	h.mu.Unlock()

	h.logger.Info("mirror: client connected", "remote", conn.RemoteAddr().String())
	go c.writeLoop()
	go c.readLoop()
	return true
}

// Broadcast queues data for every client and returns how many accepted it.
func (h *Hub) Broadcast(data []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.clients {
		select {
		case c.send <- data:
			n++
		default:
			h.logger.Warn("mirror: dropping slow client", "remote", c.conn.RemoteAddr().String())
			h.dropLocked(c)
		}
	}
	return n
}

// remove unregisters c. It is safe to call more than once.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

// writeLoop sends queued frames until the queue is closed or a write fails.
func (c *client) writeLoop() {
	defer c.conn.Close()
	timeout := c.hub.config.WriteTimeout

	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			c.hub.logger.Debug("mirror: write failed", "error", err)
			c.hub.remove(c)
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(timeout))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readLoop discards client messages and notices disconnects.
func (c *client) readLoop() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.hub.logger.Warn("mirror: read error", "error", err)
			}
			c.hub.remove(c)
			return
		}
	}
}
