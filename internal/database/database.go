package database

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/snapgram/snapgram/internal/config"
)

const (
	usersCollection         = "users"
	postsCollection         = "posts"
	commentsCollection      = "comments"
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
)

// DB wraps the mongo client and hands out repositories.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    config.MongoConfig
	log    *slog.Logger
}

func Connect(ctx context.Context, cfg config.MongoConfig, log *slog.Logger) (*DB, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	d := &DB{
		client: client,
		db:     client.Database(cfg.Database),
		cfg:    cfg,
		log:    log,
	}
	if err := d.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return d, nil
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.OperationTimeout)
	defer cancel()

	_, err := d.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_username_unique"),
	})
	if err != nil {
		return fmt.Errorf("create user index: %w", err)
	}

	_, err = d.db.Collection(messagesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: 1}},
		Options: options.Index().
			SetName("messages_conversation_created"),
	})
	if err != nil {
		return fmt.Errorf("create message index: %w", err)
	}
	return nil
}

func (d *DB) Close(ctx context.Context) error {
	d.log.Info("closing database connection")
	return d.client.Disconnect(ctx)
}

func (d *DB) Users() *UserRepo {
	return &UserRepo{col: d.db.Collection(usersCollection), timeout: d.cfg.OperationTimeout}
}

func (d *DB) Posts() *PostRepo {
	return &PostRepo{
		col:      d.db.Collection(postsCollection),
		comments: d.db.Collection(commentsCollection),
		timeout:  d.cfg.OperationTimeout,
	}
}

func (d *DB) Messages() *MessageRepo {
	return &MessageRepo{
		conversations: d.db.Collection(conversationsCollection),
		messages:      d.db.Collection(messagesCollection),
		timeout:       d.cfg.OperationTimeout,
	}
}
