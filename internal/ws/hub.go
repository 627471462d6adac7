package ws

import (
	"encoding/json"
	"sync"
)

// Event is a realtime change notification pushed to admin clients.
// Consumers treat it as a refetch trigger; the payload carries the
// table, action and row id so stricter clients can patch in place.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ChangePayload is the payload for table change events.
type ChangePayload struct {
	Table  string `json:"table"`
	Action string `json:"action"`
	ID     string `json:"id"`
}

// StatusPayload is the payload for store_status events.
type StatusPayload struct {
	Open bool `json:"open"`
}

// Hub maintains the set of connected admin clients and fans events out
// to all of them. Single restaurant, single room.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event

	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
	}
}

// Run starts the hub's main loop.
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, exists := h.clients[client]; exists {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and drop it
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues an event for every connected client.
func (h *Hub) Broadcast(event Event) {
	h.broadcast <- event
}

// NotifyChange broadcasts a table change (insert/update/delete by id).
func (h *Hub) NotifyChange(table, action, id string) {
	payload, err := json.Marshal(ChangePayload{Table: table, Action: action, ID: id})
	if err != nil {
		return
	}
	h.Broadcast(Event{Type: "change", Payload: payload})
}

// NotifyStoreStatus broadcasts an availability transition.
func (h *Hub) NotifyStoreStatus(open bool) {
	payload, err := json.Marshal(StatusPayload{Open: open})
	if err != nil {
		return
	}
	h.Broadcast(Event{Type: "store_status", Payload: payload})
}
