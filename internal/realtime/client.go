package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Conn is the subset of the websocket connection the hub needs. Tests
// substitute an in-memory implementation.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

// Client is one live transport session bound to a user.
type Client struct {
	SessionID string
	UserID    string
	Conn      Conn
	Send      chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(sessionID, userID string, conn Conn) *Client {
	return &Client{
		SessionID: sessionID,
		UserID:    userID,
		Conn:      conn,
		Send:      make(chan []byte, 16),
	}
}

// inbound maps client-emitted event names to their handlers. Unknown events
// and undecodable payloads are dropped; a bad frame must never take down
// the session.
var inbound = map[string]func(h *Hub, c *Client, event string, data json.RawMessage){
	EventJoinRoom:   handleJoinRoom,
	EventTyping:     handleRoomSignal,
	EventStopTyping: handleRoomSignal,
}

func handleJoinRoom(h *Hub, c *Client, _ string, data json.RawMessage) {
	var room string
	if err := json.Unmarshal(data, &room); err != nil || room == "" {
		return
	}
	h.JoinRoom(c.SessionID, room)
}

func handleRoomSignal(h *Hub, c *Client, event string, data json.RawMessage) {
	var sig RoomSignal
	if err := json.Unmarshal(data, &sig); err != nil || sig.Room == "" {
		return
	}
	h.Relay(c.SessionID, sig.Room, event, data)
}

// ReadPump consumes frames until the connection drops, then unregisters
// the session. Disconnect is the only cancellation signal.
func (c *Client) ReadPump(h *Hub) {
	defer h.Unregister(c.SessionID)
	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		if fn, ok := inbound[env.Event]; ok {
			fn(h, c, env.Event, env.Data)
		}
	}
}

func (c *Client) WritePump() {
	for data := range c.Send {
		_ = c.Conn.WriteMessage(websocket.TextMessage, data)
	}
	_ = c.Conn.Close()
}

// enqueue hands a frame to the write pump. A full buffer or an already
// closed session means the frame is dropped; delivery is best-effort.
func (c *Client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}
