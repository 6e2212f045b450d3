package realtime

import (
	"context"
	"sync"

	"govportal/internal/common/logger"
	"govportal/internal/common/metrics"
)

// Event names pushed to bound connections.
const (
	EventApplicationCreated = "application_created"
	EventComplaintCreated   = "complaint_created"
)

// MessageTypeBindUser is the client message announcing its owning user.
const MessageTypeBindUser = "bind_user"

// Event is one message on the wire, in either direction.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub owns the set of live connections and routes published events through
// the user directory.
type Hub struct {
	directory  *Directory
	log        logger.Logger
	Register   chan *Client
	Unregister chan *Client

	mu      sync.Mutex
	clients map[*Client]bool
}

// NewHub creates a Hub around an injected Directory.
func NewHub(directory *Directory, log logger.Logger) *Hub {
	return &Hub{
		directory:  directory,
		log:        log,
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run processes connection lifecycle events until ctx is canceled. On
// shutdown every remaining connection's send channel is closed so write
// pumps exit cleanly.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()

			metrics.RealtimeConnections.Inc()
			h.log.Info("Realtime client connected", map[string]interface{}{
				"total_clients": total,
			})

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			total := len(h.clients)
			h.mu.Unlock()

			h.directory.Drop(client)
			metrics.RealtimeConnections.Dec()
			h.log.Info("Realtime client disconnected", map[string]interface{}{
				"total_clients": total,
			})

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.closeSend()
			}
			h.mu.Unlock()
			h.log.Info("Realtime hub stopped", nil)
			return
		}
	}
}

// Bind associates a connection with a user identity.
func (h *Hub) Bind(c *Client, userID int64) {
	h.directory.Bind(c, userID)
	h.log.Debug("Realtime client bound", map[string]interface{}{
		"user_id": userID,
	})
}

// Publish delivers an event to every connection currently bound to userID.
// Delivery is fire-and-forget: a connection with a full send buffer is
// skipped rather than blocking the publisher, and failures are logged,
// never surfaced to the caller.
func (h *Hub) Publish(userID int64, event string, payload interface{}) {
	conns := h.directory.Connections(userID)
	if len(conns) == 0 {
		return
	}

	msg := Event{Type: event, Data: payload}
	delivered := 0
	for _, c := range conns {
		if c.trySend(msg) {
			delivered++
		} else {
			h.log.Warn("Dropping realtime event, connection closing or buffer full", map[string]interface{}{
				"user_id": userID,
				"event":   event,
			})
		}
	}

	metrics.RealtimeEventsPublished.WithLabelValues(event).Add(float64(delivered))
	h.log.Debug("Realtime event published", map[string]interface{}{
		"user_id":   userID,
		"event":     event,
		"delivered": delivered,
	})
}
