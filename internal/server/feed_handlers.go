package server

import (
	"agora/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	feed, err := s.feed.Feed(ctx, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	body := fiber.Map{"feed": feed, "count": len(feed)}
	if len(feed) == 0 {
		body["message"] = "No posts in feed. Start following users to see their posts!"
	}
	return c.JSON(body)
}
