package database

import "time"

// User is the account record. Password holds the bcrypt hash and never
// leaves the API.
type User struct {
	ID             string    `bson:"_id" json:"_id"`
	Username       string    `bson:"username" json:"username"`
	Email          string    `bson:"email" json:"email"`
	Password       string    `bson:"password" json:"-"`
	ProfilePicture string    `bson:"profilePicture" json:"profilePicture"`
	Bio            string    `bson:"bio" json:"bio"`
	Followers      []string  `bson:"followers" json:"followers"`
	Following      []string  `bson:"following" json:"following"`
	Bookmarks      []string  `bson:"bookmarks" json:"bookmarks"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// Post is the durable source of truth for likes; the realtime notification
// is only an ephemeral hint layered on top of it.
type Post struct {
	ID        string    `bson:"_id" json:"_id"`
	Caption   string    `bson:"caption" json:"caption"`
	AuthorID  string    `bson:"authorId" json:"authorId"`
	Likes     []string  `bson:"likes" json:"likes"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Comment struct {
	ID        string    `bson:"_id" json:"_id"`
	PostID    string    `bson:"postId" json:"postId"`
	AuthorID  string    `bson:"authorId" json:"authorId"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Conversation groups the messages between a pair of participants.
type Conversation struct {
	ID           string    `bson:"_id" json:"_id"`
	Participants []string  `bson:"participants" json:"participants"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

type Message struct {
	ID             string    `bson:"_id" json:"_id"`
	ConversationID string    `bson:"conversationId" json:"conversationId"`
	SenderID       string    `bson:"senderId" json:"senderId"`
	ReceiverID     string    `bson:"receiverId" json:"receiverId"`
	Text           string    `bson:"message" json:"message"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
