// Package hub tracks which live connections belong to which room and fans
// messages out to them. All fan-out and deregistration runs on the single
// Run goroutine, so every member of a room observes broadcasts in the same
// order and an outbound channel is never closed concurrently with a send.
package hub

import (
	"context"
	"sync"

	"github.com/binita54/chat-app/pkg/log"
)

type roomMessage struct {
	roomID string
	data   []byte
}

type membership struct {
	roomID string
	client *Client
}

// Hub is the connection registry and broadcast engine.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool

	broadcast  chan roomMessage
	unregister chan membership
}

// NewHub creates an empty hub. Call Run before broadcasting.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan roomMessage, 256),
		unregister: make(chan membership, 64),
	}
}

// Run processes broadcasts and deregistrations until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case m := <-h.unregister:
			h.remove(m.roomID, m.client)

		case msg := <-h.broadcast:
			h.deliver(msg.roomID, msg.data)
		}
	}
}

// Join adds a client to a room's member set, creating the set lazily. Once
// Join returns, the client receives every subsequent broadcast to the room.
func (h *Hub) Join(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][c] = true

	l := log.L()
	l.Debug().Str(log.FieldClientID, c.ID).Str(log.FieldRoomID, roomID).Msg("client joined room")
}

// Leave schedules removal of a client from a room. Safe to call more than
// once and for clients that never joined. Removal is serialized with
// delivery on the Run goroutine.
func (h *Hub) Leave(roomID string, c *Client) {
	h.unregister <- membership{roomID: roomID, client: c}
}

// Snapshot returns the current members of a room. A missing room and an
// empty room both yield an empty slice.
func (h *Hub) Snapshot(roomID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]*Client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		members = append(members, c)
	}
	return members
}

// Broadcast submits a message for delivery to the room's current members.
// Messages submitted for the same room are delivered in submission order.
func (h *Hub) Broadcast(roomID string, data []byte) {
	h.broadcast <- roomMessage{roomID: roomID, data: data}
}

// deliver pushes one message to every member of a room. A member whose send
// buffer is full is evicted; it terminates on its own close path and never
// delays the remaining members.
func (h *Hub) deliver(roomID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[roomID] {
		select {
		case c.send <- data:
		default:
			l := log.L()
			l.Warn().Str(log.FieldClientID, c.ID).Str(log.FieldRoomID, roomID).Msg("send buffer full, evicting client")
			go func(c *Client) {
				h.unregister <- membership{roomID: roomID, client: c}
			}(c)
		}
	}
}

// remove deletes a client from a room's set and closes its outbound channel.
// Only the Run goroutine calls this, so the close cannot race a delivery.
func (h *Hub) remove(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomID]
	if !ok || !members[c] {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
	close(c.send)

	l := log.L()
	l.Debug().Str(log.FieldClientID, c.ID).Str(log.FieldRoomID, roomID).Msg("client left room")
}
