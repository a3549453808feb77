package database

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo struct {
	col     *mongo.Collection
	timeout time.Duration
}

func (r *UserRepo) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Create inserts a new user. Username uniqueness is enforced by index.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	user := &User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		Password:  passwordHash,
		Followers: []string{},
		Following: []string{},
		Bookmarks: []string{},
		CreatedAt: time.Now().UTC(),
	}
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	var user User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	var user User
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ToggleBookmark saves the post to the user's bookmark set, or removes it
// if already saved. Returns whether the post ended up saved.
func (r *UserRepo) ToggleBookmark(ctx context.Context, userID, postID string) (bool, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	var user User
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}

	update := bson.M{"$addToSet": bson.M{"bookmarks": postID}}
	saved := true
	if slices.Contains(user.Bookmarks, postID) {
		update = bson.M{"$pull": bson.M{"bookmarks": postID}}
		saved = false
	}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return false, err
	}
	return saved, nil
}

// Search matches usernames case-insensitively by substring.
func (r *UserRepo) Search(ctx context.Context, query string, limit int64) ([]User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	filter := bson.M{"username": bson.M{"$regex": query, "$options": "i"}}
	cur, err := r.col.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	users := []User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Suggested returns other users for the sidebar, newest first.
func (r *UserRepo) Suggested(ctx context.Context, excludeID string, limit int64) ([]User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	filter := bson.M{"_id": bson.M{"$ne": excludeID}}
	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	users := []User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
