package realtime

import (
	"log/slog"
	"sort"
	"sync"
)

// Hub owns the user→session registry and fans events out to live sessions.
// It is created once at startup and handed to the transport and REST layers;
// all shared realtime state lives here.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]string             // userID -> live sessionID, last connection wins
	clients  map[string]*Client            // sessionID -> client
	rooms    map[string]map[string]*Client // roomID -> sessionID -> client

	log *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]string),
		clients:  make(map[string]*Client),
		rooms:    make(map[string]map[string]*Client),
		log:      log,
	}
}

// Register binds the client's user to its session, replacing any previous
// session for that user, and publishes the updated online set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.SessionID] = c
	h.sessions[c.UserID] = c.SessionID
	h.broadcastPresenceLocked()
	h.mu.Unlock()

	h.log.Info("session registered", "user_id", c.UserID, "session_id", c.SessionID)
}

// Unregister drops a session. The user mapping is removed only if it still
// points at this exact session, so a stale disconnect racing a newer
// connection for the same user cannot evict the newer mapping.
func (h *Hub) Unregister(sessionID string) {
	h.mu.Lock()
	c, ok := h.clients[sessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, sessionID)
	for roomID, members := range h.rooms {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if h.sessions[c.UserID] == sessionID {
		delete(h.sessions, c.UserID)
		h.broadcastPresenceLocked()
	}
	h.mu.Unlock()

	c.close()
	h.log.Info("session unregistered", "user_id", c.UserID, "session_id", sessionID)
}

// Lookup returns the live session for a user, if any.
func (h *Hub) Lookup(userID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sid, ok := h.sessions[userID]
	return sid, ok
}

// OnlineUsers returns the currently registered user IDs, sorted.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	users := make([]string, 0, len(h.sessions))
	for userID := range h.sessions {
		users = append(users, userID)
	}
	h.mu.RUnlock()
	sort.Strings(users)
	return users
}

// Deliver routes one event to the target user's live session. An offline
// target, an unmarshalable payload or a full send buffer all end in a
// silent drop: notifications are ephemeral UX hints and the durable record
// stays behind the REST API.
func (h *Hub) Deliver(targetUserID, event string, payload any) {
	if targetUserID == "" {
		return
	}
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		h.log.Warn("undeliverable payload", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	var c *Client
	if sid, ok := h.sessions[targetUserID]; ok {
		c = h.clients[sid]
	}
	h.mu.RUnlock()

	if c == nil {
		return
	}
	c.enqueue(data)
}

// broadcastPresenceLocked pushes the full online set to every connected
// session. Caller must hold mu: snapshotting and enqueueing inside the
// mutation's critical section keeps presence frames in mutation order, so
// the last frame a client sees is always the freshest set. O(sessions) per
// registry mutation, fine for a single app instance.
func (h *Hub) broadcastPresenceLocked() {
	users := make([]string, 0, len(h.sessions))
	for userID := range h.sessions {
		users = append(users, userID)
	}
	sort.Strings(users)
	data, err := marshalEnvelope(EventOnlineUsers, users)
	if err != nil {
		return
	}
	for _, c := range h.clients {
		c.enqueue(data)
	}
}
