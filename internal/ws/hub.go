package ws

import (
	"encoding/json"
	"sync"

	"school-quiz-backend/internal/logger"

	"github.com/gorilla/websocket"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans quiz activity events (completions, badge awards) out to
// connected admin dashboard clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	log     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		log:     log,
	}
}

func (h *Hub) AddConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[conn] = true
	h.log.Info("ws: activity client connected", "total", len(h.clients))
}

func (h *Hub) RemoveConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		h.log.Info("ws: activity client disconnected", "total", len(h.clients))
	}
}

func (h *Hub) Broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws: marshal error", "err", err)
		return
	}

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warn("ws: write error", "err", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
