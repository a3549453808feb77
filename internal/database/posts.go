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

type PostRepo struct {
	col      *mongo.Collection
	comments *mongo.Collection
	timeout  time.Duration
}

func (r *PostRepo) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostRepo) Create(ctx context.Context, authorID, caption string) (*Post, error) {
	post := &Post{
		ID:        uuid.NewString(),
		Caption:   caption,
		AuthorID:  authorID,
		Likes:     []string{},
		CreatedAt: time.Now().UTC(),
	}
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	if _, err := r.col.InsertOne(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*Post, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	var post Post
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Feed returns all posts, newest first.
func (r *PostRepo) Feed(ctx context.Context) ([]Post, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	posts := []Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ByAuthor returns one user's posts, newest first.
func (r *PostRepo) ByAuthor(ctx context.Context, authorID string) ([]Post, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"authorId": authorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	posts := []Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes the post and cascades to its comments.
func (r *PostRepo) Delete(ctx context.Context, postID string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	_, err = r.comments.DeleteMany(ctx, bson.M{"postId": postID})
	return err
}

// AddLike records the like in the post's like set. $addToSet keeps a repeat
// like idempotent.
func (r *PostRepo) AddLike(ctx context.Context, postID, userID string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveLike pulls the user from the like set; removing an absent like is a
// no-op.
func (r *PostRepo) RemoveLike(ctx context.Context, postID, userID string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepo) AddComment(ctx context.Context, postID, authorID, text string) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *PostRepo) CommentsByPost(ctx context.Context, postID string) ([]Comment, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.comments.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	comments := []Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
