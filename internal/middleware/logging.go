package middleware

import (
	"time"

	"agora/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// ContextMiddleware stores a request-scoped logger carrying the request and
// trace IDs in the user context. It must run after requestid and tracing.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		logCtx := observability.Ctx(ctx).With()

		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			logCtx = logCtx.Str(observability.FieldRequestID, rid)
		}
		if tid, ok := c.Locals("traceID").(string); ok && tid != "" {
			logCtx = logCtx.Str(observability.FieldTraceID, tid)
		}

		c.SetUserContext(observability.WithLogger(ctx, logCtx.Logger()))
		return c.Next()
	}
}

// StructuredLogger logs one line per request with the request-scoped logger.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		l := observability.Ctx(c.UserContext())
		event := l.Info()
		switch {
		case err != nil || status >= fiber.StatusInternalServerError:
			event = l.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			event = l.Warn()
		}

		event.
			Int(observability.FieldStatus, status).
			Str(observability.FieldMethod, c.Method()).
			Str(observability.FieldPath, c.Path()).
			Str(observability.FieldClientIP, c.IP()).
			Int64(observability.FieldLatency, time.Since(start).Milliseconds()).
			Str("user_agent", c.Get(fiber.HeaderUserAgent)).
			Msg("request processed")

		return err
	}
}
