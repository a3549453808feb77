package realtime

import "encoding/json"

// Event names are the wire contract shared with the web client. They must
// stay byte-for-byte identical to what the frontend emits and listens on.
const (
	EventJoinRoom   = "join-room"
	EventTyping     = "typing"
	EventStopTyping = "stop-typing"

	EventOnlineUsers         = "getOnlineUsers"
	EventNewMessage          = "newMessage"
	EventNotification        = "notification"
	EventMessageNotification = "getMessageNotification"
)

// Like/dislike notification types carried in Notification.Type.
const (
	NotificationLike    = "like"
	NotificationDislike = "dislike"
)

// Envelope frames every message on the socket, in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// UserDetails is the display metadata attached to a like notification.
type UserDetails struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

// Notification is the payload of the "notification" event, emitted to a
// post owner when someone likes or dislikes their post.
type Notification struct {
	Type        string      `json:"type"`
	UserID      string      `json:"userId"`
	UserDetails UserDetails `json:"userDetails"`
	PostID      string      `json:"postId"`
	Message     string      `json:"message"`
}

// MessageNotification is the payload of "getMessageNotification".
type MessageNotification struct {
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
}

// RoomSignal carries the room a typing / stop-typing signal belongs to.
// Only Room is routed on; the payload is relayed to the room untouched.
type RoomSignal struct {
	Room string `json:"room"`
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	var data json.RawMessage
	switch p := payload.(type) {
	case nil:
	case json.RawMessage:
		data = p
	case []byte:
		data = p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
