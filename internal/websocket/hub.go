// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"parkdesk-service/internal/domain/session"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Message is the envelope pushed to dashboard listeners.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans occupancy snapshots out to connected dashboard clients. It is
// broadcast-only: clients never send commands, they just watch the lot.
type Hub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex

	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan Message
	done       chan struct{}

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan Message, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run pumps registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
		case conn := <-h.unregister:
			h.drop(conn)
		case msg := <-h.broadcast:
			h.send(msg)
		}
	}
}

// Register adds a connection and starts its reader, which exists only to
// detect disconnects. Both channel sends give up once the hub is shut down
// so late registrations and stragglers cannot block.
func (h *Hub) Register(conn *websocket.Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				select {
				case h.unregister <- conn:
				case <-h.done:
					conn.Close()
				}
				return
			}
		}
	}()
}

// BroadcastOccupancy pushes the current occupancy snapshot to every client.
// Implements the lifecycle service's OccupancyNotifier.
func (h *Hub) BroadcastOccupancy(summary session.OccupancySummary) {
	select {
	case h.broadcast <- Message{Type: "occupancy", Data: summary}:
	default:
		h.logger.Warn("occupancy broadcast dropped, hub backlogged")
	}
}

// send runs on the Run goroutine, so dead connections are culled inline:
// it cannot round-trip through the unregister channel Run itself drains.
func (h *Hub) send(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal broadcast", zap.Error(err))
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	var failed []*websocket.Conn
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			failed = append(failed, conn)
		}
	}
	for _, conn := range failed {
		h.drop(conn)
	}
}

// drop removes and closes a connection if it is still tracked.
func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
