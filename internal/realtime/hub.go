// Package realtime is the publish/subscribe fan-out for appointment events.
// Every connected websocket client receives every event; there is no
// per-client acknowledgment and slow clients are disconnected rather than
// allowed to stall the hub.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/PaddyWebDev/safemax-backend/internal/metrics"
	"github.com/PaddyWebDev/safemax-backend/internal/model"
)

// Event types pushed to clients.
const (
	EventNewAppointment    = "new-appointment"
	EventAppointmentStatus = "appointment-status"
	EventChatMessage       = "chat-message"
)

type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// StatusChange is the appointment-status payload.
type StatusChange struct {
	AppointmentID int64        `json:"appointmentId"`
	Status        model.Status `json:"status"`
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message

	mu      sync.Mutex
	clients map[*Client]struct{}

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		clients:    make(map[*Client]struct{}),
		logger:     logger,
	}
}

// Run owns the client set until ctx is canceled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			metrics.WebsocketClients.Set(float64(n))
			h.logger.Info("websocket client connected", "clients", n)
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			metrics.WebsocketClients.Set(float64(n))
			h.logger.Info("websocket client disconnected", "clients", n)
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// BroadcastNewAppointment announces a successful booking with the full record.
func (h *Hub) BroadcastNewAppointment(appt model.Appointment) {
	h.publish(Message{Type: EventNewAppointment, Data: appt})
}

// BroadcastStatusChange announces an approval or denial.
func (h *Hub) BroadcastStatusChange(id int64, status model.Status) {
	h.publish(Message{Type: EventAppointmentStatus, Data: StatusChange{AppointmentID: id, Status: status}})
}

func (h *Hub) publish(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		metrics.BroadcastsDropped.Inc()
		h.logger.Warn("broadcast buffer full, dropping event", "type", msg.Type)
	}
}

func (h *Hub) fanOut(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Client can't keep up; cut it loose.
			delete(h.clients, c)
			close(c.send)
		}
	}
	metrics.WebsocketClients.Set(float64(len(h.clients)))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	metrics.WebsocketClients.Set(0)
	h.logger.Info("websocket hub stopped")
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
