// Package hub is the transport-level fan-out: it keeps per-room multicast
// groups of live sockets and owns the read/write pumps of each websocket
// connection. It knows nothing about durable membership.
package hub

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/internal-hackathon-7/int-hack-7/internal/models"
	"github.com/internal-hackathon-7/int-hack-7/internal/presence"
)

// Hub implements presence.Fanout over in-process socket groups.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[string]presence.Sender
}

func New() *Hub {
	return &Hub{
		groups: make(map[string]map[string]presence.Sender),
	}
}

func (h *Hub) Subscribe(roomID, socketID string, s presence.Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[roomID]
	if !ok {
		group = make(map[string]presence.Sender)
		h.groups[roomID] = group
	}
	group[socketID] = s
}

func (h *Hub) Unsubscribe(roomID, socketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(roomID, socketID)
}

func (h *Hub) DropSocket(socketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID := range h.groups {
		h.drop(roomID, socketID)
	}
}

// drop removes one socket from one group and discards emptied groups.
// Callers hold h.mu.
func (h *Hub) drop(roomID, socketID string) {
	group, ok := h.groups[roomID]
	if !ok {
		return
	}
	delete(group, socketID)
	if len(group) == 0 {
		delete(h.groups, roomID)
	}
}

// Publish delivers one event to every socket subscribed under roomID.
func (h *Hub) Publish(roomID string, ev models.ServerEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	group, ok := h.groups[roomID]
	if !ok {
		log.Debug().Str("room", roomID).Msg("publish to empty group")
		return
	}
	for _, s := range group {
		s.Send(ev)
	}
}
