package http

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"sync"
)

// outboundMessage is the envelope for every server-to-client push. AckID is
// set only on direct replies to a client request.
type outboundMessage struct {
	Type    string `json:"type"`
	AckID   int64  `json:"ackId,omitempty"`
	Payload any    `json:"payload"`
}

type client struct {
	id   string
	send chan outboundMessage
	done chan struct{}
}

// Hub tracks live connections and their room membership, and implements
// app.Emitter on top of them. Broadcasts are fire-and-forget: a client too
// slow to drain its send buffer loses the message rather than blocking the
// room.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]*client
	rooms    map[string]map[string]*client
	connRoom map[string]string
}

func NewHub() *Hub {
	return &Hub{
		conns:    make(map[string]*client),
		rooms:    make(map[string]map[string]*client),
		connRoom: make(map[string]string),
	}
}

func (h *Hub) register() *client {
	c := &client{
		id:   newConnID(),
		send: make(chan outboundMessage, 32),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropFromRoomLocked(connID)
	if c, ok := h.conns[connID]; ok {
		delete(h.conns, connID)
		close(c.done)
	}
}

// JoinRoom subscribes the connection to a room's broadcasts. A connection
// belongs to at most one room at a time.
func (h *Hub) JoinRoom(connID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	h.dropFromRoomLocked(connID)
	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[string]*client)
		h.rooms[roomCode] = members
	}
	members[connID] = c
	h.connRoom[connID] = roomCode
}

// LeaveRoom unsubscribes the connection from its room, if any.
func (h *Hub) LeaveRoom(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropFromRoomLocked(connID)
}

func (h *Hub) dropFromRoomLocked(connID string) {
	roomCode, ok := h.connRoom[connID]
	if !ok {
		return
	}
	delete(h.connRoom, connID)
	if members, ok := h.rooms[roomCode]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomCode)
		}
	}
}

// ToRoom multicasts an event to every connection subscribed to the room.
func (h *Hub) ToRoom(roomCode, event string, payload any) {
	h.mu.RLock()
	members := make([]*client, 0, len(h.rooms[roomCode]))
	for _, c := range h.rooms[roomCode] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	msg := outboundMessage{Type: event, Payload: payload}
	for _, c := range members {
		c.trySend(msg)
	}
}

// ToConn sends an event to a single connection.
func (h *Hub) ToConn(connID, event string, payload any) {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.trySend(outboundMessage{Type: event, Payload: payload})
}

func (c *client) trySend(msg outboundMessage) {
	select {
	case c.send <- msg:
	default:
		log.Printf("dropping %s for slow connection %s", msg.Type, c.id)
	}
}

func newConnID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic("conn id entropy unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
