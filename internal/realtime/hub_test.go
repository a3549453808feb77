package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	inbound chan []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan []byte, 16)}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-f.inbound
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return websocket.TextMessage, data, nil
}

func (f *fakeConn) WriteMessage(int, []byte) error { return nil }
func (f *fakeConn) Close() error                   { return nil }

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func connect(t *testing.T, h *Hub, userID, sessionID string) *Client {
	t.Helper()
	c := NewClient(sessionID, userID, newFakeConn())
	h.Register(c)
	return c
}

// drain empties the client's send buffer and decodes the envelopes.
func drain(t *testing.T, c *Client) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case data := <-c.Send:
			var env Envelope
			require.NoError(t, json.Unmarshal(data, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func eventsNamed(envs []Envelope, event string) []Envelope {
	var out []Envelope
	for _, env := range envs {
		if env.Event == event {
			out = append(out, env)
		}
	}
	return out
}

func TestRegisterLastConnectionWins(t *testing.T) {
	h := newTestHub()
	connect(t, h, "alice", "s1")
	connect(t, h, "alice", "s2")

	sid, ok := h.Lookup("alice")
	require.True(t, ok)
	assert.Equal(t, "s2", sid)
}

func TestUnregisterStaleSessionKeepsNewerMapping(t *testing.T) {
	h := newTestHub()
	connect(t, h, "alice", "s1")
	c2 := connect(t, h, "alice", "s2")

	// The old connection disconnects after the new one registered; the
	// newer mapping must survive.
	h.Unregister("s1")

	sid, ok := h.Lookup("alice")
	require.True(t, ok)
	assert.Equal(t, "s2", sid)

	drain(t, c2)
	h.Deliver("alice", EventNewMessage, map[string]string{"message": "hi"})
	got := eventsNamed(drain(t, c2), EventNewMessage)
	assert.Len(t, got, 1)
}

func TestUnregisterRemovesSession(t *testing.T) {
	h := newTestHub()
	connect(t, h, "alice", "s1")

	h.Unregister("s1")

	_, ok := h.Lookup("alice")
	assert.False(t, ok)
	assert.Empty(t, h.OnlineUsers())
}

func TestUnregisterUnknownSessionNoop(t *testing.T) {
	h := newTestHub()
	connect(t, h, "alice", "s1")

	h.Unregister("never-registered")

	_, ok := h.Lookup("alice")
	assert.True(t, ok)
}

func TestDeliverToOfflineUserIsSilentDrop(t *testing.T) {
	h := newTestHub()
	c := connect(t, h, "alice", "s1")
	drain(t, c)

	h.Deliver("ghost", EventNotification, Notification{Type: NotificationLike, UserID: "alice"})

	assert.Empty(t, drain(t, c))
}

func TestDeliverUnmarshalablePayloadIsSilentDrop(t *testing.T) {
	h := newTestHub()
	c := connect(t, h, "alice", "s1")
	drain(t, c)

	h.Deliver("alice", EventNotification, make(chan int))

	assert.Empty(t, drain(t, c))
}

func TestDeliverEndToEnd(t *testing.T) {
	h := newTestHub()
	cx := connect(t, h, "x", "s1")
	cy := connect(t, h, "y", "s2")
	drain(t, cx)
	drain(t, cy)

	want := Notification{
		Type:    NotificationLike,
		UserID:  "y",
		PostID:  "p1",
		Message: "Your post was liked",
	}
	h.Deliver("x", EventNotification, want)

	got := eventsNamed(drain(t, cx), EventNotification)
	require.Len(t, got, 1)
	var n Notification
	require.NoError(t, json.Unmarshal(got[0].Data, &n))
	assert.Equal(t, want, n)

	assert.Empty(t, eventsNamed(drain(t, cy), EventNotification))
}

func TestPresenceBroadcastReachesAllSessions(t *testing.T) {
	h := newTestHub()
	c1 := connect(t, h, "u1", "s1")
	c2 := connect(t, h, "u2", "s2")

	for _, c := range []*Client{c1, c2} {
		presence := eventsNamed(drain(t, c), EventOnlineUsers)
		require.NotEmpty(t, presence)
		var users []string
		require.NoError(t, json.Unmarshal(presence[len(presence)-1].Data, &users))
		assert.Equal(t, []string{"u1", "u2"}, users)
	}
}

func TestConcurrentRegistersPresenceConverges(t *testing.T) {
	h := newTestHub()
	c0 := connect(t, h, "u00", "s00")

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Register(NewClient(fmt.Sprintf("s%02d", i), fmt.Sprintf("u%02d", i), newFakeConn()))
		}(i)
	}
	wg.Wait()

	// Presence frames are enqueued inside the registry's critical section,
	// so the last frame any session sees reflects the freshest set no
	// matter how the registrations interleaved.
	presence := eventsNamed(drain(t, c0), EventOnlineUsers)
	require.Len(t, presence, 11)
	var users []string
	require.NoError(t, json.Unmarshal(presence[len(presence)-1].Data, &users))
	assert.Equal(t, h.OnlineUsers(), users)
	assert.Len(t, users, 11)
}

func TestPresenceBroadcastOnDisconnect(t *testing.T) {
	h := newTestHub()
	c1 := connect(t, h, "u1", "s1")
	connect(t, h, "u2", "s2")
	drain(t, c1)

	h.Unregister("s2")

	presence := eventsNamed(drain(t, c1), EventOnlineUsers)
	require.NotEmpty(t, presence)
	var users []string
	require.NoError(t, json.Unmarshal(presence[len(presence)-1].Data, &users))
	assert.Equal(t, []string{"u1"}, users)
}
