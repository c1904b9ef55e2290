package middleware

import (
	"context"
	"errors"
	"strings"

	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/core/domain"
	"agrismart-api/internal/core/services"
	"agrismart-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// userKey is the Locals key holding the authenticated *models.User
const userKey = "user"

// Authenticator resolves a session credential to its identity
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.Authenticate(c.UserContext(), bearerToken(c))
		if err != nil {
			var derr *domain.Error
			if errors.As(err, &derr) && errors.Is(err, domain.ErrUnauthorized) {
				return response.Unauthorized(c, derr.Message)
			}
			return response.InternalServerError(c, "Failed to authenticate", "")
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RequireRoles creates role-based authorization middleware. It must run
// after AuthMiddleware.
func RequireRoles(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := services.Authorize(CurrentUser(c), roles...); err != nil {
			var derr *domain.Error
			if errors.As(err, &derr) && errors.Is(err, domain.ErrForbidden) {
				return response.Forbidden(c, derr.Message)
			}
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// FarmerOnly allows only the farmer role
func FarmerOnly() fiber.Handler {
	return RequireRoles(domain.RoleFarmer)
}

// BuyerOnly allows only the buyer role
func BuyerOnly() fiber.Handler {
	return RequireRoles(domain.RoleBuyer)
}

// AdminOnly allows only the admin role
func AdminOnly() fiber.Handler {
	return RequireRoles(domain.RoleAdmin)
}

// CurrentUser returns the identity set by AuthMiddleware, or nil
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// access_token cookie.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return c.Cookies("access_token")
}
