package realtime

import (
	"sync"

	"shutterhub_backend/internals/observability/metrics"
)

// Hub is the in-process room registry: room id → set of clients. Join, leave
// and broadcast may run concurrently; broadcast copies the member set under
// the read lock so it never iterates a half-mutated map.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool

	// set when a redis bridge is attached; nil means single instance.
	// Guarded by mu: the bridge detaches it on shutdown while broadcasts
	// may still be in flight.
	publish func(room string, payload []byte)
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
	}
}

// Join subscribes a client to a room.
func (h *Hub) Join(c *Client, room string) {
	if room == "" {
		return
	}
	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	h.mu.Unlock()

	c.mu.Lock()
	c.rooms[room] = true
	c.mu.Unlock()
}

// Leave unsubscribes a client from one room, dropping the room entirely when
// it was the last member.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()

	c.mu.Lock()
	delete(c.rooms, room)
	c.mu.Unlock()
}

// LeaveAll removes the client from every room it joined. Called on disconnect.
func (h *Hub) LeaveAll(c *Client) {
	c.mu.Lock()
	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}
	c.rooms = make(map[string]bool)
	c.mu.Unlock()

	h.mu.Lock()
	for _, room := range rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.mu.Unlock()
}

// RoomSize reports the current member count of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast fans an event out to the room's local members and, when a bridge
// is attached, to the other instances. At-most-once: a member whose send
// buffer is full simply misses the event.
func (h *Hub) Broadcast(e *Event) {
	payload := e.Encode()
	h.broadcastLocal(e.Room, payload)

	h.mu.RLock()
	publish := h.publish
	h.mu.RUnlock()
	if publish != nil {
		publish(e.Room, payload)
	}
}

// SetPublish attaches (or, with nil, detaches) the cross-instance publish hook.
func (h *Hub) SetPublish(fn func(room string, payload []byte)) {
	h.mu.Lock()
	h.publish = fn
	h.mu.Unlock()
}

func (h *Hub) broadcastLocal(room string, payload []byte) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		select {
		case c.send <- payload:
		default:
			metrics.IncFanoutDropped()
		}
	}
}
