package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/snapgram/snapgram/internal/auth"
	"github.com/snapgram/snapgram/internal/database"
	"github.com/snapgram/snapgram/internal/realtime"
)

// PostStore is the slice of the post repository the handler needs; the
// seam lets tests swap in an in-memory store.
type PostStore interface {
	Create(ctx context.Context, authorID, caption string) (*database.Post, error)
	FindByID(ctx context.Context, id string) (*database.Post, error)
	Feed(ctx context.Context) ([]database.Post, error)
	ByAuthor(ctx context.Context, authorID string) ([]database.Post, error)
	Delete(ctx context.Context, postID string) error
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	AddComment(ctx context.Context, postID, authorID, text string) (*database.Comment, error)
	CommentsByPost(ctx context.Context, postID string) ([]database.Comment, error)
}

// UserStore covers the user lookups the post handler makes.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*database.User, error)
	ToggleBookmark(ctx context.Context, userID, postID string) (bool, error)
}

type PostHandler struct {
	posts PostStore
	users UserStore
	hub   *realtime.Hub
	log   *slog.Logger
}

func NewPostHandler(posts PostStore, users UserStore, hub *realtime.Hub, log *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, users: users, hub: hub, log: log}
}

type addPostRequest struct {
	Caption string `json:"caption"`
}

type addCommentRequest struct {
	Text string `json:"text"`
}

// AddPost POST /api/v1/post/addpost
func (h *PostHandler) AddPost(c *fiber.Ctx) error {
	var req addPostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Caption) == "" {
		return badRequest(c, "caption is required")
	}
	post, err := h.posts.Create(c.Context(), auth.UserID(c), req.Caption)
	if err != nil {
		return serverError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "New post added",
		"post":    post,
	})
}

// Feed GET /api/v1/post/all
func (h *PostHandler) Feed(c *fiber.Ctx) error {
	posts, err := h.posts.Feed(c.Context())
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

// UserPosts GET /api/v1/post/userpost/all
func (h *PostHandler) UserPosts(c *fiber.Ctx) error {
	posts, err := h.posts.ByAuthor(c.Context(), auth.UserID(c))
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

// Delete DELETE /api/v1/post/:id
//
// Only the author may delete; comments go with the post.
func (h *PostHandler) Delete(c *fiber.Ctx) error {
	postID := c.Params("id")
	post, err := h.posts.FindByID(c.Context(), postID)
	if errors.Is(err, database.ErrNotFound) {
		return notFound(c, "Post not found")
	}
	if err != nil {
		return serverError(c, err)
	}
	if post.AuthorID != auth.UserID(c) {
		return forbidden(c, "Unauthorized")
	}
	if err := h.posts.Delete(c.Context(), postID); err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Post deleted",
	})
}

// Bookmark POST /api/v1/post/:id/bookmark
//
// Toggles the post in the caller's bookmark set; the response type tells
// the client which way it went.
func (h *PostHandler) Bookmark(c *fiber.Ctx) error {
	postID := c.Params("id")
	if _, err := h.posts.FindByID(c.Context(), postID); errors.Is(err, database.ErrNotFound) {
		return notFound(c, "Post not found")
	} else if err != nil {
		return serverError(c, err)
	}

	saved, err := h.users.ToggleBookmark(c.Context(), auth.UserID(c), postID)
	if err != nil {
		return serverError(c, err)
	}
	if saved {
		return c.JSON(fiber.Map{
			"success": true,
			"type":    "saved",
			"message": "Post bookmarked",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"type":    "unsaved",
		"message": "Post removed from bookmark",
	})
}

// Like POST /api/v1/post/:id/like
//
// On success the post owner gets a "notification" event over their live
// session; if they are offline the hint is dropped, the like set on the
// post row stays the source of truth.
func (h *PostHandler) Like(c *fiber.Ctx) error {
	return h.react(c, realtime.NotificationLike)
}

// Dislike POST /api/v1/post/:id/dislike
func (h *PostHandler) Dislike(c *fiber.Ctx) error {
	return h.react(c, realtime.NotificationDislike)
}

func (h *PostHandler) react(c *fiber.Ctx, kind string) error {
	userID := auth.UserID(c)
	postID := c.Params("id")

	post, err := h.posts.FindByID(c.Context(), postID)
	if errors.Is(err, database.ErrNotFound) {
		return notFound(c, "Post not found")
	}
	if err != nil {
		return serverError(c, err)
	}

	if kind == realtime.NotificationLike {
		err = h.posts.AddLike(c.Context(), postID, userID)
	} else {
		err = h.posts.RemoveLike(c.Context(), postID, userID)
	}
	if err != nil {
		return serverError(c, err)
	}

	if post.AuthorID != userID {
		actor, err := h.users.FindByID(c.Context(), userID)
		if err != nil {
			h.log.Warn("actor lookup failed, skipping notification", "user_id", userID, "err", err)
		} else {
			message := "Your post was liked"
			if kind == realtime.NotificationDislike {
				message = "Your post was disliked"
			}
			h.hub.Deliver(post.AuthorID, realtime.EventNotification, realtime.Notification{
				Type:   kind,
				UserID: userID,
				UserDetails: realtime.UserDetails{
					ID:             actor.ID,
					Username:       actor.Username,
					ProfilePicture: actor.ProfilePicture,
				},
				PostID:  postID,
				Message: message,
			})
		}
	}

	message := "Post liked"
	if kind == realtime.NotificationDislike {
		message = "Post disliked"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// AddComment POST /api/v1/post/:id/comment
func (h *PostHandler) AddComment(c *fiber.Ctx) error {
	var req addCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return badRequest(c, "text is required")
	}
	postID := c.Params("id")
	if _, err := h.posts.FindByID(c.Context(), postID); errors.Is(err, database.ErrNotFound) {
		return notFound(c, "Post not found")
	} else if err != nil {
		return serverError(c, err)
	}

	comment, err := h.posts.AddComment(c.Context(), postID, auth.UserID(c), req.Text)
	if err != nil {
		return serverError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Comment added",
		"comment": comment,
	})
}

// Comments GET /api/v1/post/:id/comment/all
func (h *PostHandler) Comments(c *fiber.Ctx) error {
	comments, err := h.posts.CommentsByPost(c.Context(), c.Params("id"))
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"comments": comments,
	})
}
