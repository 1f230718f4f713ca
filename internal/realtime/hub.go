package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// EventType names a change to the board.
type EventType string

const (
	EventTaskCreated EventType = "task_created"
	EventTaskUpdated EventType = "task_updated"
	EventTaskDeleted EventType = "task_deleted"
	EventBoardReset  EventType = "board_reset"
)

// Event is the message pushed to every connected board.
type Event struct {
	Type    EventType `json:"type"`
	TaskID  string    `json:"taskId,omitempty"`
	Version int       `json:"version"`
}

// Client represents a single websocket client connection. The hub closes it
// on Unregister; Close must be safe to call more than once.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub keeps the open board connections and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]Client)}
}

// Register adds a client and returns the id it was registered under.
func (h *Hub) Register(client Client) string {
	id := uuid.NewString()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = client
	return id
}

// Unregister removes the client and closes it. Unknown ids are ignored.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	client, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if ok {
		client.Close()
	}
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends message to every client and returns how many accepted it.
// A client whose write fails is left for its handler to clean up.
func (h *Hub) Broadcast(message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, c := range h.clients {
		if c.Send(message) {
			sent++
		}
	}
	return sent
}

// Publish encodes evt and broadcasts it. Safe to call on a nil Hub.
func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	if evt.Version == 0 {
		evt.Version = 1
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("realtime: failed to encode %s event: %v", evt.Type, err)
		return
	}
	h.Broadcast(data)
}
