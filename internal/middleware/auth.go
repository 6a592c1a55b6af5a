// Package middleware provides the fiber middleware shared by all routes.
package middleware

import (
	"strings"

	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Fiber locals set by the auth middleware.
const (
	LocalSession = "session"
	LocalUserID  = "userID"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. It returns "" when the header is absent or malformed.
func BearerToken(c *fiber.Ctx) string {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CurrentSession returns the session attached by AuthRequired or OptionalAuth.
func CurrentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(LocalSession).(*session.Session)
	return sess
}

// CurrentUserID returns the authenticated user's ID, or "".
func CurrentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// AuthRequired rejects requests that do not carry a live session token.
func AuthRequired(store session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization header required"))
		}

		sess, err := store.Resolve(c.UserContext(), token)
		if err != nil {
			observability.Ctx(c.UserContext()).Error().Err(err).Msg("session lookup failed")
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired session"))
		}
		if sess == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired session"))
		}

		attach(c, sess)
		return c.Next()
	}
}

// OptionalAuth attaches the session when the request carries a live token
// and otherwise lets the request through anonymously.
func OptionalAuth(store session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := BearerToken(c); token != "" {
			sess, err := store.Resolve(c.UserContext(), token)
			if err != nil {
				observability.Ctx(c.UserContext()).Warn().Err(err).Msg("optional session lookup failed")
			} else if sess != nil {
				attach(c, sess)
			}
		}
		return c.Next()
	}
}

func attach(c *fiber.Ctx, sess *session.Session) {
	c.Locals(LocalSession, sess)
	c.Locals(LocalUserID, sess.User.ID)

	ctx := c.UserContext()
	logger := observability.Ctx(ctx).With().Str(observability.FieldUserID, sess.User.ID).Logger()
	c.SetUserContext(observability.WithLogger(ctx, logger))
}
