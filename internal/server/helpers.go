package server

import (
	"context"

	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// requestContext bounds a handler's store calls.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// respondError writes err with the status its code maps to. Internal causes
// are logged and replaced by a generic message.
func respondError(c *fiber.Ctx, err error) error {
	appErr := models.AsAppError(err)
	if appErr.Code == models.CodeInternal {
		observability.Ctx(c.UserContext()).Error().Err(err).
			Str(observability.FieldPath, c.Path()).
			Msg("request failed")
	}
	return models.RespondWithError(c, appErr.Status(), appErr)
}

// parseBody decodes the JSON body into out, answering 400 on failure.
// Callers return the error unchanged; it is nil once the response is written.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if len(c.Body()) == 0 {
		return true, nil
	}
	if err := c.BodyParser(out); err != nil {
		return false, models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	return true, nil
}

// currentUser returns the session snapshot attached by the auth middleware.
func currentUser(c *fiber.Ctx) models.User {
	if sess := middleware.CurrentSession(c); sess != nil {
		return sess.User
	}
	return models.User{}
}
