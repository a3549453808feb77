// Package wsclient maintains the realtime connection for one logged-in
// user: it dials the backend, reads the event stream and keeps the local
// notification store reconciled with it.
package wsclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/snapgram/snapgram/internal/notify"
	"github.com/snapgram/snapgram/internal/realtime"
)

// Handlers are the caller's hooks for events that are not notification
// state. Any of them may be nil.
type Handlers struct {
	OnOnlineUsers func(userIDs []string)
	OnNewMessage  func(raw json.RawMessage)
	OnTyping      func(raw json.RawMessage)
	OnStopTyping  func(raw json.RawMessage)
}

type Client struct {
	conn     *websocket.Conn
	store    *notify.Store
	handlers Handlers
	log      *slog.Logger

	writeMu sync.Mutex
	done    chan struct{}
}

// Dial connects to the backend's /ws endpoint as the given user. The
// userId query param is the registration handshake.
func Dial(ctx context.Context, baseURL, userID string, store *notify.Store, handlers Handlers, log *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"userId": {userID}}.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		conn:     conn,
		store:    store,
		handlers: handlers,
		log:      log,
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Store exposes the notification store so the embedding app can render
// badges and fire the read-reconciliation trigger on navigation.
func (c *Client) Store() *notify.Store { return c.store }

// Done is closed once the connection is gone and the read loop has exited.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Close() error {
	return c.conn.Close()
}

// JoinRoom subscribes this session to a conversation room.
func (c *Client) JoinRoom(roomID string) error {
	return c.send(realtime.EventJoinRoom, roomID)
}

// Typing signals the other room members that this user is typing.
func (c *Client) Typing(roomID string) error {
	return c.send(realtime.EventTyping, realtime.RoomSignal{Room: roomID})
}

// StopTyping clears the typing signal.
func (c *Client) StopTyping(roomID string) error {
	return c.send(realtime.EventStopTyping, realtime.RoomSignal{Room: roomID})
}

func (c *Client) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(realtime.Envelope{Event: event, Data: data})
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.log.Info("realtime connection closed", "err", err)
			return
		}
		c.dispatch(data)
	}
}

// dispatch routes one inbound frame. Undecodable frames are dropped; a bad
// event must not kill the listener.
func (c *Client) dispatch(data []byte) {
	var env realtime.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return
	}
	switch env.Event {
	case realtime.EventOnlineUsers:
		var users []string
		if err := json.Unmarshal(env.Data, &users); err != nil {
			return
		}
		if c.handlers.OnOnlineUsers != nil {
			c.handlers.OnOnlineUsers(users)
		}
	case realtime.EventNotification:
		var n realtime.Notification
		if err := json.Unmarshal(env.Data, &n); err != nil {
			return
		}
		c.store.IngestNotification(n)
	case realtime.EventMessageNotification:
		var n realtime.MessageNotification
		if err := json.Unmarshal(env.Data, &n); err != nil {
			return
		}
		c.store.IngestMessage(n)
	case realtime.EventNewMessage:
		if c.handlers.OnNewMessage != nil {
			c.handlers.OnNewMessage(env.Data)
		}
	case realtime.EventTyping:
		if c.handlers.OnTyping != nil {
			c.handlers.OnTyping(env.Data)
		}
	case realtime.EventStopTyping:
		if c.handlers.OnStopTyping != nil {
			c.handlers.OnStopTyping(env.Data)
		}
	}
}
