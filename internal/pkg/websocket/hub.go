package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/app/models"
)

// Event types published on the academic data channel
const (
	EventAcademicDataCreated     = "academic_data.created"
	EventAcademicDataUpdated     = "academic_data.updated"
	EventAcademicDataDeleted     = "academic_data.deleted"
	EventAcademicDataPublished   = "academic_data.published"
	EventAcademicDataUnpublished = "academic_data.unpublished"
)

// Event is a change notification pushed to connected clients
type Event struct {
	Type         string               `json:"type"`
	AcademicData *models.AcademicData `json:"academicData,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`

	// StaffOnly events are not delivered to parents and students
	StaffOnly bool `json:"-"`
}

// Hub maintains the set of active clients and broadcasts events to them
type Hub struct {
	clients map[*Client]bool

	// Channel for outbound events
	broadcast chan *Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns; pending register/unregister sends give up
	done     chan struct{}
	stopOnce sync.Once

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run handles client registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			// Disconnect every client before leaving
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Register hands a new client to the running hub. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. After the hub has stopped it returns at once, the client
// having already been closed by Run.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Done is closed when Run returns
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.logger.Info().
		Str("userID", client.userID.String()).
		Bool("staff", client.staff).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// The client may already be gone after a dropped broadcast
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Info().
			Str("userID", client.userID.String()).
			Msg("Client unregistered")
	}
}

// closeAll closes every send channel, which makes each writePump send a close frame
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// broadcastEvent sends an event to every client allowed to see it
func (h *Hub) broadcastEvent(event *Event) {
	// Encode once for every recipient
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for client := range h.clients {
		// Drafts are for staff only
		if event.StaffOnly && !client.staff {
			continue
		}
		select {
		case client.send <- data:
			delivered++
		default:
			// Slow client, drop it
			delete(h.clients, client)
			close(client.send)
		}
	}

	h.logger.Debug().
		Str("type", event.Type).
		Int("clientCount", delivered).
		Msg("Event broadcasted")
}

// Publish queues an event for broadcast. It never blocks; events are dropped when the queue is full.
func (h *Hub) Publish(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().Str("type", event.Type).Msg("Broadcast queue full, event dropped")
	}
}

// ClientsCount returns the number of connected clients
func (h *Hub) ClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
