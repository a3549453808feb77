package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinRoomIdempotent(t *testing.T) {
	h := newTestHub()
	connect(t, h, "alice", "s1")

	h.JoinRoom("s1", "room-1")
	h.JoinRoom("s1", "room-1")

	assert.Equal(t, []string{"s1"}, h.RoomMembers("room-1"))
}

func TestJoinRoomUnknownSessionNoop(t *testing.T) {
	h := newTestHub()

	h.JoinRoom("nope", "room-1")

	assert.Empty(t, h.RoomMembers("room-1"))
}

func TestRelayExcludesSender(t *testing.T) {
	h := newTestHub()
	c1 := connect(t, h, "alice", "s1")
	c2 := connect(t, h, "bob", "s2")
	c3 := connect(t, h, "carol", "s3")
	h.JoinRoom("s1", "room-1")
	h.JoinRoom("s2", "room-1")
	drain(t, c1)
	drain(t, c2)
	drain(t, c3)

	payload := RoomSignal{Room: "room-1"}
	h.Relay("s1", "room-1", EventTyping, payload)

	assert.Empty(t, eventsNamed(drain(t, c1), EventTyping), "sender must not receive its own signal")
	assert.Empty(t, eventsNamed(drain(t, c3), EventTyping), "non-member must not receive the signal")

	got := eventsNamed(drain(t, c2), EventTyping)
	require.Len(t, got, 1)
	var sig RoomSignal
	require.NoError(t, json.Unmarshal(got[0].Data, &sig))
	assert.Equal(t, "room-1", sig.Room)
}

func TestRelayUnknownRoomNoop(t *testing.T) {
	h := newTestHub()
	c := connect(t, h, "alice", "s1")
	drain(t, c)

	h.Relay("s1", "no-such-room", EventTyping, RoomSignal{Room: "no-such-room"})

	assert.Empty(t, drain(t, c))
}

func TestDisconnectLeavesRooms(t *testing.T) {
	h := newTestHub()
	connect(t, h, "alice", "s1")
	connect(t, h, "bob", "s2")
	h.JoinRoom("s1", "room-1")
	h.JoinRoom("s2", "room-1")

	h.Unregister("s1")

	assert.Equal(t, []string{"s2"}, h.RoomMembers("room-1"))
}
