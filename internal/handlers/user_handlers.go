package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/snapgram/snapgram/internal/auth"
	"github.com/snapgram/snapgram/internal/database"
)

type UserHandler struct {
	users *database.UserRepo
}

func NewUserHandler(users *database.UserRepo) *UserHandler {
	return &UserHandler{users: users}
}

// Profile GET /api/v1/user/:id/profile
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, err := h.users.FindByID(c.Context(), c.Params("id"))
	if errors.Is(err, database.ErrNotFound) {
		return notFound(c, "User not found")
	}
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// Suggested GET /api/v1/user/suggested
func (h *UserHandler) Suggested(c *fiber.Ctx) error {
	users, err := h.users.Suggested(c.Context(), auth.UserID(c), 10)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// Search GET /api/v1/user/search?query=
func (h *UserHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return c.JSON(fiber.Map{"success": true, "users": []database.User{}})
	}
	users, err := h.users.Search(c.Context(), query, 20)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}
