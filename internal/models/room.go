package models

import "time"

// Room is the durable record behind a room code. Membership lives in a
// separate set keyed by the same code; RoomWithMembers joins the two for
// HTTP responses.
type Room struct {
	RoomID    string    `json:"roomId"`
	CreatorID string    `json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoomWithMembers is the shape the daemon API returns.
type RoomWithMembers struct {
	RoomID  string   `json:"roomId"`
	Members []string `json:"members"`
}

// User is a directory entry, keyed by the identity provider's stable ID.
type User struct {
	GoogleID string `json:"googleId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Picture  string `json:"picture,omitempty"`
}
