package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/internal-hackathon-7/int-hack-7/internal/models"
)

func TestCreateRoomDetectsCollision(t *testing.T) {
	st := NewMemory()
	ctx := t.Context()

	require.NoError(t, st.CreateRoom(ctx, "ABC234", "alice"))
	err := st.CreateRoom(ctx, "ABC234", "bob")
	assert.ErrorIs(t, err, ErrRoomExists)

	// The collision must not clobber the original room.
	members, err := st.Members(ctx, "ABC234")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, members)
}

func TestAddMemberRequiresLiveRoom(t *testing.T) {
	st := NewMemory()
	err := st.AddMember(t.Context(), "NOSUCH", "alice")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestAddMemberIsIdempotent(t *testing.T) {
	st := NewMemory()
	ctx := t.Context()
	require.NoError(t, st.CreateRoom(ctx, "ABC234", "alice"))

	require.NoError(t, st.AddMember(ctx, "ABC234", "bob"))
	require.NoError(t, st.AddMember(ctx, "ABC234", "bob"))

	members, err := st.Members(ctx, "ABC234")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, members)
}

func TestRemoveMember(t *testing.T) {
	st := NewMemory()
	ctx := t.Context()
	require.NoError(t, st.CreateRoom(ctx, "ABC234", "alice"))
	require.NoError(t, st.AddMember(ctx, "ABC234", "bob"))

	removed, remaining, err := st.RemoveMember(ctx, "ABC234", "bob")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.EqualValues(t, 1, remaining)

	// Removing a non-member is a no-op, not an error.
	removed, remaining, err = st.RemoveMember(ctx, "ABC234", "bob")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.EqualValues(t, 1, remaining)

	// Unknown room likewise.
	removed, _, err = st.RemoveMember(ctx, "NOSUCH", "bob")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRemoveLastMemberDeletesRoom(t *testing.T) {
	st := NewMemory()
	ctx := t.Context()
	require.NoError(t, st.CreateRoom(ctx, "ABC234", "alice"))

	removed, remaining, err := st.RemoveMember(ctx, "ABC234", "alice")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.EqualValues(t, 0, remaining)

	_, err = st.Members(ctx, "ABC234")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	// The code is free for reuse once the room is gone.
	assert.NoError(t, st.CreateRoom(ctx, "ABC234", "bob"))
}

func TestRoomsWithMember(t *testing.T) {
	st := NewMemory()
	ctx := t.Context()
	require.NoError(t, st.CreateRoom(ctx, "AAAA22", "alice"))
	require.NoError(t, st.CreateRoom(ctx, "BBBB33", "alice"))
	require.NoError(t, st.CreateRoom(ctx, "CCCC44", "bob"))
	require.NoError(t, st.AddMember(ctx, "CCCC44", "alice"))

	rooms, err := st.RoomsWithMember(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAAA22", "BBBB33", "CCCC44"}, rooms)

	rooms, err = st.RoomsWithMember(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestUserDirectory(t *testing.T) {
	st := NewMemory()
	ctx := t.Context()

	_, err := st.UserByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	u := models.User{GoogleID: "g-1", Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, st.UpsertUser(ctx, u))

	got, err := st.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u, *got)

	// Upsert overwrites the profile for the same identity.
	u.Name = "Alice B"
	require.NoError(t, st.UpsertUser(ctx, u))
	got, err = st.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
}

func TestMemberDiffsNewestFirst(t *testing.T) {
	st := NewMemory()
	ctx := t.Context()

	first := models.DiffBlob{RoomID: "ABC234", MemberID: "g-1", ProjectName: "svc", NewHash: "h1"}
	second := models.DiffBlob{RoomID: "ABC234", MemberID: "g-1", ProjectName: "svc", NewHash: "h2"}
	require.NoError(t, st.AddDiff(ctx, first))
	require.NoError(t, st.AddDiff(ctx, second))

	blobs, err := st.MemberDiffs(ctx, "ABC234", "g-1")
	require.NoError(t, err)
	require.Len(t, blobs, 2)
	assert.Equal(t, "h2", blobs[0].NewHash)
	assert.Equal(t, "h1", blobs[1].NewHash)
	assert.False(t, blobs[0].Timestamp.IsZero())

	blobs, err = st.MemberDiffs(ctx, "ABC234", "g-2")
	require.NoError(t, err)
	assert.Empty(t, blobs)
}
