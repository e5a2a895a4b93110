package middleware

import (
	"context"
	"strings"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by RequireAuth.
const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
	LocalUserName  = "user_name"
	LocalRole      = "role"
	LocalRoles     = "user_roles"
)

// UserLookup loads the account behind a token.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// RequireAuth is middleware that validates the bearer token and sets user info in context.
// The account is reloaded so deleted users and role changes take effect immediately.
func RequireAuth(tokens *jwt.Manager, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := users.FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
		}

		c.Locals(LocalUserID, user.ID.String())
		c.Locals(LocalUserEmail, user.Email)
		c.Locals(LocalUserName, user.Name)
		c.Locals(LocalRole, user.PrimaryRole())
		c.Locals(LocalRoles, user.RoleCodes())

		return c.Next()
	}
}

// RequireRole lets the request through when the user holds any of the roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		held, ok := c.Locals(LocalRoles).([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No roles found"})
		}

		for _, h := range held {
			for _, r := range roles {
				if h == r {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(roles, ", ") + " roles",
		})
	}
}
