package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
	timeout       time.Duration
}

func (r *MessageRepo) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// ensureConversation finds the conversation between two users, creating it
// on first contact.
func (r *MessageRepo) ensureConversation(ctx context.Context, a, b string) (*Conversation, error) {
	filter := bson.M{"participants": bson.M{"$all": bson.A{a, b}}}
	var conv Conversation
	err := r.conversations.FindOne(ctx, filter).Decode(&conv)
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	conv = Conversation{
		ID:           uuid.NewString(),
		Participants: []string{a, b},
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := r.conversations.InsertOne(ctx, conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// Send persists a message, creating the conversation if needed.
func (r *MessageRepo) Send(ctx context.Context, senderID, receiverID, text string) (*Message, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	conv, err := r.ensureConversation(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	msg := &Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := r.messages.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListBetween returns the message history between two users, oldest first.
func (r *MessageRepo) ListBetween(ctx context.Context, a, b string) ([]Message, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{"participants": bson.M{"$all": bson.A{a, b}}}
	var conv Conversation
	err := r.conversations.FindOne(ctx, filter).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.messages.Find(ctx, bson.M{"conversationId": conv.ID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	msgs := []Message{}
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
