package ws

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

type userMessage struct {
	userID  uuid.UUID
	payload []byte
}

// Hub fans messages out to the open sessions of one user. Membership changes
// and delivery all happen on the Run goroutine.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	broadcast  chan userMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		broadcast:  make(chan userMessage, 1024),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves the hub until ctx is done, then closes every session.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]struct{})
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set := h.clients[client.userID]
			if set == nil {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			n := len(set)
			h.mutex.Unlock()
			h.logf("[WS] connected | user=%s sessions=%d", client.userID, n)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			removed := h.remove(client)
			h.mutex.Unlock()
			if removed {
				h.logf("[WS] disconnected | user=%s", client.userID)
			}

		case msg := <-h.broadcast:
			h.mutex.Lock()
			sent := 0
			for client := range h.clients[msg.userID] {
				select {
				case client.send <- msg.payload:
					sent++
				default:
					h.remove(client)
					h.logf("[WS] dropped slow client | user=%s", msg.userID)
				}
			}
			h.mutex.Unlock()
			h.logf("[WS] delivered | user=%s sessions=%d", msg.userID, sent)
		}
	}
}

// remove must be called with the mutex held.
func (h *Hub) remove(client *Client) bool {
	set := h.clients[client.userID]
	if _, ok := set[client]; !ok {
		return false
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	return true
}

// Register hands client to Run. Once the hub has stopped the client is
// never tracked, so its send channel is closed here instead.
func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Send queues payload for every session of userID without blocking.
func (h *Hub) Send(userID uuid.UUID, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- userMessage{userID: userID, payload: payload}:
	default:
		h.logf("[WS] send dropped | user=%s reason=buffer_full", userID)
	}
}

func (h *Hub) ClientCount(userID uuid.UUID) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
