package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/esimov/ascii-fountain/fountain"
)

// sendBuffer is the number of frames queued per client before frames get
// dropped for it.
const sendBuffer = 16

// client is a connected browser.
type client struct {
	conn *websocket.Conn
	addr string
	send chan []byte
}

// Hub fans frames out to the connected clients and remembers the state of
// the last one.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool

	lastMu sync.RWMutex
	last   State
	seen   bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
	}
}

// register adds a client. It reports false once the hub is closed.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("[WS] client %s connected (%d total)", c.addr, n)
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("[WS] client %s disconnected (%d total)", c.addr, n)
}

// Close sends a going-away close frame to every client and closes their
// connections, which ends their read loops. Clients connecting afterwards
// are turned away.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		if c.conn != nil {
			conns = append(conns, c.conn)
		}
	}
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range conns {
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		conn.Close()
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Last returns the state of the last published frame.
func (h *Hub) Last() (State, bool) {
	h.lastMu.RLock()
	defer h.lastMu.RUnlock()
	return h.last, h.seen
}

// Publish records the frame and sends it to every client. The frame is
// encoded before Publish returns, so its points buffer may be reused.
func (h *Hub) Publish(f fountain.Frame) {
	h.lastMu.Lock()
	h.last, h.seen = stateOf(f), true
	h.lastMu.Unlock()

	if h.Clients() == 0 {
		return
	}
	data, err := encodeFrame(f)
	if err != nil {
		log.Printf("[WS] error encoding frame %d: %v", f.Seq, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client's buffer is full
		}
	}
}

// sendTo queues a message for a single client.
func (h *Hub) sendTo(c *client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] dropped message for %s (buffer full)", c.addr)
	}
}
