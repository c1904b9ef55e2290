package handlers

import (
	"errors"
	"log"

	"agrismart-api/internal/config"
	"agrismart-api/internal/core/domain"
	"agrismart-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to its HTTP status. Anything outside the
// domain taxonomy is logged and answered with fallback as a 500; the raw
// error is only echoed in dev mode.
func respondError(c *fiber.Ctx, cfg *config.Config, err error, fallback string) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return response.ValidationFailed(c, verr.Field, verr.Message)
	}

	message := fallback
	var derr *domain.Error
	if errors.As(err, &derr) {
		message = derr.Message
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, domain.ErrPendingApproval):
		return response.Forbidden(c, "Your account is pending approval")
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrConflict):
		return response.BadRequest(c, message)
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, message)
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, message)
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, message)
	}

	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	detail := ""
	if cfg != nil && cfg.IsDev() {
		detail = err.Error()
	}
	return response.InternalServerError(c, fallback, detail)
}
