// Package progress streams pipeline stage transitions to websocket clients.
package progress

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"trilion/log"
)

// Event is one stage transition pushed to subscribers.
type Event struct {
	TaskID    string `json:"task_id"`
	Stage     string `json:"stage"`
	Timestamp int64  `json:"timestamp"`
}

// Hub fans stage events out to websocket subscribers. It implements the
// pipeline Notifier interface, so orchestrators publish into it directly.
type Hub struct {
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[string]map[*websocket.Conn]struct{} // taskID -> connections
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subscribers: make(map[string]map[*websocket.Conn]struct{}),
	}
}

// StageChanged publishes one transition. Slow clients get dropped rather
// than blocking the pipeline.
func (h *Hub) StageChanged(taskID, stage string) {
	event := Event{TaskID: taskID, Stage: stage, Timestamp: time.Now().Unix()}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subscribers[taskID]))
	for conn := range h.subscribers[taskID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			log.GetLogger().Debug("dropping slow progress subscriber",
				zap.String("task_id", taskID), zap.Error(err))
			h.unsubscribe(taskID, conn)
			conn.Close()
		}
	}
}

// Serve upgrades the request and keeps the connection subscribed to one
// task's events until the client goes away.
func (h *Hub) Serve(c *gin.Context, taskID string) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.GetLogger().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.subscribe(taskID, conn)
	defer func() {
		h.unsubscribe(taskID, conn)
		conn.Close()
	}()

	// Reads exist only to detect the client closing.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) subscribe(taskID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[taskID] == nil {
		h.subscribers[taskID] = make(map[*websocket.Conn]struct{})
	}
	h.subscribers[taskID][conn] = struct{}{}
}

func (h *Hub) unsubscribe(taskID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.subscribers[taskID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subscribers, taskID)
		}
	}
}

// SubscriberCount reports how many connections watch one task.
func (h *Hub) SubscriberCount(taskID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[taskID])
}
