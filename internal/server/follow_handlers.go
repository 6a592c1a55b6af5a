package server

import (
	"agora/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type followRequest struct {
	FollowingID string `json:"followingId"`
}

// followTarget reads followingId from the body, falling back to the query
// string for clients that cannot send a DELETE body.
func followTarget(c *fiber.Ctx) (string, bool, error) {
	var in followRequest
	if ok, err := parseBody(c, &in); !ok {
		return "", false, err
	}
	if in.FollowingID == "" {
		in.FollowingID = c.Query("followingId")
	}
	return in.FollowingID, true, nil
}

// Follow handles POST /follow
func (s *Server) Follow(c *fiber.Ctx) error {
	target, ok, err := followTarget(c)
	if !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	follow, err := s.follows.Follow(ctx, middleware.CurrentUserID(c), target)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Successfully followed user",
		"follow":  follow,
	})
}

// Unfollow handles DELETE /follow
func (s *Server) Unfollow(c *fiber.Ctx) error {
	target, ok, err := followTarget(c)
	if !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := s.follows.Unfollow(ctx, middleware.CurrentUserID(c), target); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Successfully unfollowed user"})
}
