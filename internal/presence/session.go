// Package presence implements the room membership protocol: the per
// connection state machine for create/join/leave/disconnect, the grace
// period reconciliation that absorbs reconnect churn, and the fan-out of
// membership snapshots.
package presence

import (
	"github.com/internal-hackathon-7/int-hack-7/internal/models"
)

// Sender delivers a server event to one socket.
type Sender interface {
	Send(ev models.ServerEvent)
}

// Fanout is the multicast side of the transport: per-room socket groups.
// Group membership is in-process, per-instance state; durable room
// membership lives in the store.
type Fanout interface {
	Subscribe(roomID, socketID string, s Sender)
	Unsubscribe(roomID, socketID string)
	// DropSocket removes the socket from every group it subscribed to.
	DropSocket(socketID string)
	Publish(roomID string, ev models.ServerEvent)
}

// Session is the explicit per-connection context: one live transport
// session bound to a verified caller. The caller identity outlives the
// session; the socket does not.
type Session struct {
	SocketID    string
	CallerID    string
	DisplayName string

	sender Sender
}

func NewSession(socketID, callerID, displayName string, sender Sender) *Session {
	return &Session{
		SocketID:    socketID,
		CallerID:    callerID,
		DisplayName: displayName,
		sender:      sender,
	}
}

// Send delivers an event to this session's socket only.
func (s *Session) Send(ev models.ServerEvent) {
	s.sender.Send(ev)
}
