// Package middleware provides the HTTP middleware for the API: JWT
// validation and role gates for the shop and admin surfaces.
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"printhub/internal/repositories"
	"printhub/internal/utils"
)

// AuthMiddleware validates the bearer token on protected routes and stores
// the claims in the request context. Tokens issued before the user's current
// token version (logout, password change) are rejected.
type AuthMiddleware struct {
	users repositories.UserRepository
}

func NewAuthMiddleware(users repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return unauthorized(c, "missing bearer token")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("auth: token rejected: %v", err)
		return unauthorized(c, "invalid token")
	}

	user, err := m.users.FindByID(claims.UserID)
	if err != nil {
		return unauthorized(c, "invalid token")
	}
	if user.TokenVersion != claims.TokenVersion {
		return unauthorized(c, "session expired")
	}
	if user.IsBlocked {
		return unauthorized(c, "account blocked")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// RequireStaff gates the admin portal: staff and admin roles pass.
func RequireStaff(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil || !claims.IsStaffLevel() {
		return forbidden(c)
	}
	return c.Next()
}

// RequireAdmin gates money decisions: refund approval, payouts, commission.
func RequireAdmin(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil || !claims.IsAdmin() {
		return forbidden(c)
	}
	return c.Next()
}

// RequireRole gates a route to one specific role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil || claims.Role != role {
			return forbidden(c)
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
}
