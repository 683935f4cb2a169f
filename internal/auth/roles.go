package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consulting-service/internal/domain"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

// RequireAuthenticated ensures a principal was loaded.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Requester(c) == nil {
			return apperrors.NewUnauthorized("authentication credentials were not provided")
		}
		return c.Next()
	}
}

// RequireRole ensures the principal holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		user := Requester(c)
		if user == nil {
			return apperrors.NewUnauthorized("authentication credentials were not provided")
		}
		if _, exists := allowedSet[user.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
