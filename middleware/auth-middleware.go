package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/DeePham/ai-image-app/auth"
	"github.com/go-pkgz/auth/v2/token"
	"github.com/gofiber/fiber/v2"
)

// ErrNotLoggedIn reports a request with no parsed user in its context.
var ErrNotLoggedIn = errors.New("no authenticated user on request")

// AuthMiddleware parses the JWT from the bearer header or cookie and stores
// the token user in request locals.
func AuthMiddleware(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenStr string

		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			tokenStr = c.Cookies("JWT")
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "You are not authorized!",
				"data":    nil,
			})
		}

		claims, err := authService.TokenService().Parse(tokenStr)
		if err != nil || claims.User == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid token",
				"data":    nil,
			})
		}

		c.Locals("user", *claims.User)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// CheckUserLoggedIn returns the authenticated user's id from request locals.
func CheckUserLoggedIn(c *fiber.Ctx) (uint, error) {
	user, ok := c.Locals("user").(token.User)
	if !ok {
		return 0, ErrNotLoggedIn
	}

	userID, err := strconv.ParseUint(user.ID, 10, 32)
	if err != nil {
		return 0, ErrNotLoggedIn
	}

	return uint(userID), nil
}
