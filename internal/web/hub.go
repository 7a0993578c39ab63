package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alnah/go-shortscript/internal/workflow"
)

// WebSocket timings.
const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsSendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// StageMessage is pushed to the browser for each stage event.
type StageMessage struct {
	Type       string `json:"type"` // always "stage"
	Stage      string `json:"stage"`
	Status     string `json:"status"` // start, done or fail
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub fans stage events out to the WebSocket connections of a session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}
	log     *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*wsClient]struct{}),
		log:     logger,
	}
}

// Observer returns a workflow observer that publishes events to the session
// found on the operation's context.
func (h *Hub) Observer() workflow.Observer {
	return func(ctx context.Context, ev workflow.Event) {
		id := sessionFrom(ctx)
		if id == "" {
			return
		}

		msg := StageMessage{
			Type:       "stage",
			Stage:      ev.Stage.String(),
			Status:     ev.Kind.String(),
			DurationMS: ev.Duration.Milliseconds(),
		}
		if ev.Err != nil {
			_, _, msg.Error = classify(ev.Err)
		}
		h.Publish(id, msg)

		attrs := []any{"session", id, "stage", msg.Stage, "status", msg.Status}
		switch ev.Kind {
		case workflow.EventDone:
			h.log.Info("stage finished", append(attrs, "duration", ev.Duration)...)
		case workflow.EventFail:
			h.log.Warn("stage failed", append(attrs, "duration", ev.Duration, "error", ev.Err)...)
		}
	}
}

// Publish sends msg to every connection of session id. Slow clients drop messages.
func (h *Hub) Publish(id string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal ws message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[id] {
		select {
		case c.send <- data:
		default:
			h.log.Warn("ws send buffer full, message dropped", "session", id)
		}
	}
}

// Count returns the number of connections for session id.
func (h *Hub) Count(id string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[id])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, set := range h.clients {
		for c := range set {
			c.close()
		}
		delete(h.clients, id)
	}
}

func (h *Hub) register(id string, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[id] == nil {
		h.clients[id] = make(map[*wsClient]struct{})
	}
	h.clients[id][c] = struct{}{}
}

func (h *Hub) unregister(id string, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[id]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			c.close()
		}
		if len(set) == 0 {
			delete(h.clients, id)
		}
	}
}

// serve upgrades the request and pumps messages until the client leaves.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, id string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &wsClient{conn: conn, send: make(chan []byte, wsSendBuffer)}
	h.register(id, c)
	go h.writePump(c)
	h.readPump(id, c)
	return nil
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(id string, c *wsClient) {
	defer h.unregister(id, c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump owns all writes to the connection.
func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
