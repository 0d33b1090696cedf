package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembersUpdateSerializesEmptySnapshot(t *testing.T) {
	data, err := json.Marshal(ServerEvent{
		Type:    EventMembersUpdate,
		RoomID:  "ABC234",
		Members: []Member{},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"members_update","roomId":"ABC234","members":[]}`, string(data))
}

func TestNonSnapshotFramesOmitMembers(t *testing.T) {
	data, err := json.Marshal(ServerEvent{
		Type:   EventRoomCreated,
		RoomID: "ABC234",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"room_created","roomId":"ABC234"}`, string(data))

	data, err = json.Marshal(ServerEvent{
		Type:  EventError,
		Error: "Room not found",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error_message","error":"Room not found"}`, string(data))
}
