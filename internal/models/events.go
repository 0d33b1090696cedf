package models

// EventType identifies a frame on the realtime protocol.
type EventType string

// Client -> server events.
const (
	EventCreateRoom EventType = "create_room"
	EventJoinRoom   EventType = "join_room"
	EventLeaveRoom  EventType = "leave_room"
)

// Server -> client events.
const (
	EventRoomCreated   EventType = "room_created"
	EventRoomJoined    EventType = "room_joined"
	EventMembersUpdate EventType = "members_update"
	EventError         EventType = "error_message"
)

// ClientEvent is a frame received from a connected client.
type ClientEvent struct {
	Type   EventType `json:"type"`
	RoomID string    `json:"roomId,omitempty"`
}

// Member is one entry of a membership snapshot.
type Member struct {
	MemberID string `json:"memberId"`
}

// ServerEvent is a frame pushed to clients. Members is omitzero, not
// omitempty: snapshot frames always carry a members array, an explicit
// empty one when the room emptied out, while other frame types leave the
// field nil and drop it from the wire.
type ServerEvent struct {
	Type    EventType `json:"type"`
	RoomID  string    `json:"roomId,omitempty"`
	Members []Member  `json:"members,omitzero"`
	Error   string    `json:"error,omitempty"`
}
