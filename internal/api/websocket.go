package api

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/quill/internal/logging"
)

const (
	// writeWait is the time allowed to write a frame.
	writeWait = 10 * time.Second
	// pongWait is the time allowed between pongs from the peer.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = 54 * time.Second
	// sendBuffer is the number of replies queued per client.
	sendBuffer = 64
)

// WSResult is the reply to one query frame. Seq counts frames from 1 in
// the order the client sent them.
type WSResult struct {
	Seq     int          `json:"seq"`
	Success bool         `json:"success"`
	Data    *ParseResult `json:"data,omitempty"`
	Error   *APIError    `json:"error,omitempty"`
}

// Client is one WebSocket parse session. Every text frame it sends is
// parsed as a query and answered with a WSResult.
type Client struct {
	ctx    context.Context // carries the upgrade request's ID
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	remote string
}

func newClient(ctx context.Context, hub *Hub, conn *websocket.Conn, remote string) *Client {
	return &Client{
		ctx:    ctx,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		remote: remote,
	}
}

// close ends the session. It is safe to call more than once.
func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// queue hands a reply to the write pump. A client that stops reading and
// fills its buffer is disconnected.
func (c *Client) queue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	default:
		logging.WebSocketEvent("client_too_slow", c.hub.Count(), "remote", c.remote)
		c.close()
		return false
	}
}

// Hub tracks the active WebSocket sessions.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
}

// Run handles client registration until Stop is called, then closes every
// remaining session.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			logging.WebSocketEvent("client_connected", n, "remote", client.remote)

		case client := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, client)
			n := len(h.clients)
			h.mu.Unlock()
			client.close()
			logging.WebSocketEvent("client_disconnected", n, "remote", client.remote)

		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and closes all sessions.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// add registers c and reports whether the hub is still running.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// readPump parses each incoming frame and queues the reply.
func (s *Server) readPump(c *Client) {
	defer func() {
		s.wsLimiter.Unregister(c)
		c.hub.remove(c)
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(s.cfg.MaxQueryBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	seq := 0
	for {
		kind, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn("websocket unexpected close", "error", err, "remote", c.remote)
			}
			return
		}
		seq++

		if !s.wsLimiter.Allow(c) {
			logging.SecurityEvent("websocket_rate_limited", "websocket", "remote", c.remote)
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Rate limit exceeded"),
				time.Now().Add(writeWait))
			return
		}

		if !c.queue(s.answer(c.ctx, seq, kind, message)) {
			return
		}
	}
}

// answer builds the encoded reply to one frame.
func (s *Server) answer(ctx context.Context, seq, kind int, message []byte) []byte {
	res := WSResult{Seq: seq}
	if kind != websocket.TextMessage {
		res.Error = &APIError{Code: "INVALID_REQUEST", Message: "queries must be sent as text frames"}
	} else if src := string(message); src == "" {
		res.Error = &APIError{Code: "INVALID_REQUEST", Message: "empty query"}
	} else if result, err := s.parse(src); err != nil {
		logging.ParseFailure(ctx, "<websocket>", len(src), err, "seq", seq)
		res.Error = parseAPIError(src, err)
	} else {
		res.Success = true
		res.Data = result
	}

	data, err := json.Marshal(res)
	if err != nil {
		logging.Error("failed to marshal websocket result", "error", err)
		data = []byte(`{"success":false}`)
	}
	return data
}

// writePump writes queued replies and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
