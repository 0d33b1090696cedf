// Package store holds the durable state behind the presence protocol: the
// room records and their member sets, plus the user directory and the
// per-member activity records the daemon API serves. Implementations must
// be safe for concurrent use; member mutations are atomic set operations so
// two racing joins can never lose an update.
package store

import (
	"context"
	"errors"

	"github.com/internal-hackathon-7/int-hack-7/internal/models"
)

var (
	// ErrRoomExists reports a room-code collision on creation.
	ErrRoomExists = errors.New("room already exists")
	// ErrRoomNotFound reports an operation against a code with no live room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrUserNotFound reports a directory miss.
	ErrUserNotFound = errors.New("user not found")
)

// RoomStore is the durable room-code -> member-set mapping. Room codes are
// globally unique among live rooms; CreateRoom is the only reservation
// point and fails with ErrRoomExists on collision.
//
// RemoveMember deletes the room record once its member set is empty, in
// the same atomic step, so "zero members" and "room exists" are never
// observable together.
type RoomStore interface {
	// CreateRoom reserves roomID and seeds its member set with creatorID.
	CreateRoom(ctx context.Context, roomID, creatorID string) error

	// AddMember idempotently adds callerID to an existing room. Joining a
	// nonexistent code is ErrRoomNotFound, never an implicit create.
	AddMember(ctx context.Context, roomID, callerID string) error

	// RemoveMember idempotently removes callerID. It reports whether the
	// caller was actually a member and how many members remain; at zero
	// remaining the room record is gone. Unknown rooms are a no-op.
	RemoveMember(ctx context.Context, roomID, callerID string) (removed bool, remaining int64, err error)

	// Members returns the current member set of a live room.
	Members(ctx context.Context, roomID string) ([]string, error)

	// RoomsWithMember returns every live room callerID belongs to.
	RoomsWithMember(ctx context.Context, callerID string) ([]string, error)
}

// UserDirectory maps identities to profile records and emails back to
// identities, for the daemon's join-by-email path.
type UserDirectory interface {
	UpsertUser(ctx context.Context, u models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// DiffStore persists activity records, newest first per (room, member).
type DiffStore interface {
	AddDiff(ctx context.Context, blob models.DiffBlob) error
	MemberDiffs(ctx context.Context, roomID, memberID string) ([]models.DiffBlob, error)
}
