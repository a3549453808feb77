package realtime

// JoinRoom adds a session to a room. Membership is in-memory only and is
// removed with the session; joining twice is a no-op.
func (h *Hub) JoinRoom(sessionID, roomID string) {
	if roomID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[sessionID]
	if !ok {
		return
	}
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][sessionID] = c
}

// Relay forwards an ephemeral signal to every other session in the room.
// No acknowledgment, no persistence.
func (h *Hub) Relay(fromSessionID, roomID, event string, payload any) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	others := make([]*Client, 0, len(h.rooms[roomID]))
	for sid, c := range h.rooms[roomID] {
		if sid == fromSessionID {
			continue
		}
		others = append(others, c)
	}
	h.mu.RUnlock()

	for _, c := range others {
		c.enqueue(data)
	}
}

// RoomMembers returns the session IDs currently joined to a room.
func (h *Hub) RoomMembers(roomID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members := make([]string, 0, len(h.rooms[roomID]))
	for sid := range h.rooms[roomID] {
		members = append(members, sid)
	}
	return members
}
