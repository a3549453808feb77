package auth

import "github.com/gofiber/fiber/v2"

// UserIDKey is the fiber locals key the middleware stores the caller's
// user ID under.
const UserIDKey = "userId"

// CookieName is the auth cookie issued at login.
const CookieName = "token"

// Middleware authenticates requests from the auth cookie and injects the
// user ID into the request locals.
func Middleware(tokens *TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(CookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "User not authenticated",
			})
		}
		userID, err := tokens.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid token",
			})
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID pulls the authenticated user ID out of the request locals.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
