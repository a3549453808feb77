package handlers

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/snapgram/snapgram/internal/auth"
	"github.com/snapgram/snapgram/internal/database"
)

type AuthHandler struct {
	users  *database.UserRepo
	tokens *auth.TokenService
	log    *slog.Logger
}

func NewAuthHandler(users *database.UserRepo, tokens *auth.TokenService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register POST /api/v1/user/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return serverError(c, err)
	}
	user, err := h.users.Create(c.Context(), req.Username, req.Email, string(hash))
	if errors.Is(err, database.ErrDuplicateUsername) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Username already taken",
		})
	}
	if err != nil {
		return serverError(c, err)
	}

	h.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Account created successfully",
		"user":    user,
	})
}

// Login POST /api/v1/user/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := h.users.FindByUsername(c.Context(), req.Username)
	if errors.Is(err, database.ErrNotFound) {
		return unauthorized(c, "Incorrect username or password")
	}
	if err != nil {
		return serverError(c, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return unauthorized(c, "Incorrect username or password")
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		return serverError(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokens.TTL()),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Welcome back " + user.Username,
		"user":    user,
	})
}

// Logout GET /api/v1/user/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}
