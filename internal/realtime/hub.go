package realtime

import (
	"sync"

	"mkto/internal/domain"
	"mkto/internal/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub fans optimization events out to connected websocket clients. Writes
// happen under the lock so a slow client never interleaves frames.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
	log     *zap.SugaredLogger
}

func NewHub() *Hub {
	return &Hub{
		clients: map[*websocket.Conn]struct{}{},
		log:     logger.New(),
	}
}

func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastJSON sends the payload to every client, dropping any whose
// write fails.
func (h *Hub) BroadcastJSON(payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(payload); err != nil {
			h.log.Warnf("dropping websocket client after failed write: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// PublishOptimizationCompleted satisfies the optimization service's
// publisher interface.
func (h *Hub) PublishOptimizationCompleted(event domain.OptimizationEvent) {
	h.BroadcastJSON(event)
}
