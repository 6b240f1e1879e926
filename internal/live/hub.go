// Package live pushes refresh events to open planning views: after any
// mutation of the appointment book, connected back-office clients are told
// to refetch their range.
package live

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

const writeTimeout = 5 * time.Second

// Event is a broadcast message. Kind "planning.refresh" tells clients to
// refetch; AppointmentID narrows the cause when known.
type Event struct {
	Kind          string    `json:"kind"`
	AppointmentID string    `json:"appointmentId,omitempty"`
	At            time.Time `json:"at"`
}

// Hub fans events out to connected websocket clients.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logging.Logger

	mu    sync.RWMutex
	conns map[string]*websocket.Conn
}

// NewHub constructs an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin filtering happens in the CORS/auth middleware ahead
			// of the upgrade.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.Component("live"),
		conns:  map[string]*websocket.Conn{},
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the peer disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	id := uuid.NewString()

	h.mu.Lock()
	h.conns[id] = conn
	h.mu.Unlock()
	h.logger.Debug("planning listener connected", "conn_id", id)

	// Drain control frames; any read error means the peer is gone.
	go func() {
		defer h.drop(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends an event to every connected client. Dead connections are
// dropped on write failure.
func (h *Hub) Broadcast(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	h.mu.RLock()
	targets := make(map[string]*websocket.Conn, len(h.conns))
	for id, conn := range h.conns {
		targets[id] = conn
	}
	h.mu.RUnlock()

	for id, conn := range targets {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Debug("dropping dead planning listener", "conn_id", id, "error", err)
			h.drop(id)
		}
	}
}

// ListenerCount reports connected clients.
func (h *Hub) ListenerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) drop(id string) {
	h.mu.Lock()
	conn, ok := h.conns[id]
	delete(h.conns, id)
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}
