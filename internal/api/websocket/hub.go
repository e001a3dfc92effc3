// Package websocket is the live-stream transport spec.md's GET /ws
// surface uses: every client connection receives a copy of each batch
// of events StreamSink publishes to the shared eventbus as a run
// progresses. Adapted from the teacher's generic hub — registration,
// the broadcast fan-out loop, and the read/write pumps are unchanged;
// the message vocabulary and JSON/log libraries are swapped for this
// codebase's conventions.
package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/skywatch/eventline/internal/astro/event"
	"github.com/skywatch/eventline/internal/eventbus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Message is the envelope every frame sent to a client is wrapped in.
type Message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Hub manages WebSocket connections
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	nextID     int
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Close all clients
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("websocket client connected", "client_id", client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				slog.Info("websocket client disconnected", "client_id", client.id)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ListenAndBroadcast subscribes to bus's records topic and forwards
// every published batch of detection events to connected clients until
// ctx is cancelled. Run the hub's own Run loop alongside this.
func (h *Hub) ListenAndBroadcast(ctx context.Context, bus eventbus.EventBus) error {
	_, err := bus.Subscribe(ctx, eventbus.RecordsTopic, func(e eventbus.Event) {
		records, ok := e.Data.([]event.Record)
		if !ok {
			return
		}
		h.BroadcastRecords(records)
	})
	return err
}

// BroadcastRecords sends a batch of detection events to all connected
// clients as an events.batch message.
func (h *Hub) BroadcastRecords(records []event.Record) {
	h.Broadcast(EventBatch, records)
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(msgType string, data any) {
	msg := Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	bytes, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal websocket message", "error", err)
		return
	}

	select {
	case h.broadcast <- bytes:
	default:
		slog.Warn("websocket broadcast channel full, dropping message")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket handles WebSocket upgrade requests
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.nextID++
	clientID := string(rune('A'+h.nextID%26)) + "-" + time.Now().Format("150405")
	h.mu.Unlock()

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		id:   clientID,
	}

	h.register <- client

	welcome := Message{
		Type:      EventConnectionEstablished,
		Timestamp: time.Now().UTC(),
		Data: map[string]any{
			"client_id": clientID,
		},
	}
	if bytes, err := json.Marshal(welcome); err == nil {
		client.send <- bytes
	}

	go client.writePump()
	go client.readPump()
}

// readPump reads messages from the client
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512 * 1024) // 512KB max message size
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "error", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			slog.Warn("failed to parse websocket message", "error", err)
			continue
		}

		c.handleMessage(msg)
	}
}

// writePump writes messages to the client
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Batch pending messages
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming client messages
func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		response := Message{
			Type:      "pong",
			Timestamp: time.Now().UTC(),
		}
		if bytes, err := json.Marshal(response); err == nil {
			c.send <- bytes
		}

	case "subscribe":
		slog.Info("client subscribed", "client_id", c.id, "data", msg.Data)

	default:
		slog.Warn("unknown websocket message type", "client_id", c.id, "type", msg.Type)
	}
}

// Message types broadcast over the live stream.
const (
	EventConnectionEstablished = "connection.established"
	EventBatch                 = "events.batch"
	EventRunStarted            = "run.started"
	EventRunCompleted          = "run.completed"
	EventRunFailed             = "run.failed"
)
