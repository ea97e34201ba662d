package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Clients only send control frames.
	maxMessageSize = 512
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is enforced by the CORS configuration.
	CheckOrigin: func(*http.Request) bool { return true },
}

// SelectionMessage is pushed to websocket clients on connect and after
// every selection change. Record is null when nothing is selected.
type SelectionMessage struct {
	Type   string         `json:"type"`
	Record *domain.Record `json:"record"`
}

// Hub fans selection changes out to connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool
	metrics *observability.Metrics
	logger  *slog.Logger
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub creates an empty hub.
func NewHub(metrics *observability.Metrics, logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		metrics: metrics,
		logger:  logger,
	}
}

// BroadcastSelection queues the selection for every client. Slow clients
// whose buffer is full are dropped rather than blocking the caller.
func (h *Hub) BroadcastSelection(rec *domain.Record) {
	msg, err := json.Marshal(SelectionMessage{Type: "selection", Record: rec})
	if err != nil {
		h.logger.Error("encode selection message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("websocket client too slow, disconnecting")
			h.removeLocked(c)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// addWithInitial queues initial() as the client's first message and registers
// it under one lock, so no broadcast can fall between the two.
func (h *Hub) addWithInitial(c *wsClient, initial func() []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	c.send <- initial()
	h.clients[c] = struct{}{}
	h.metrics.WebsocketClients.Set(float64(len(h.clients)))
	return true
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *wsClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.once.Do(func() { close(c.send) })
	h.metrics.WebsocketClients.Set(float64(len(h.clients)))
}

func (s *Server) handleSelectionSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	current := func() []byte {
		var sel *domain.Record
		if rec, ok := s.session.Current(); ok {
			sel = &rec
		}
		msg, _ := json.Marshal(SelectionMessage{Type: "selection", Record: sel})
		return msg
	}

	if !s.hub.addWithInitial(c, current) {
		conn.Close()
		return
	}
	s.logger.Debug("websocket client connected", "remote", r.RemoteAddr)

	go c.writePump()
	go c.readPump(s.hub)
}

// readPump discards client frames and keeps the read deadline alive via pongs.
// It unregisters the client when the connection drops.
func (c *wsClient) readPump(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

// writePump sends queued messages and pings until the hub closes the channel.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
