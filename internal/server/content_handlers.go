package server

import (
	"agora/internal/middleware"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateContent handles POST /contents
func (s *Server) CreateContent(c *fiber.Ctx) error {
	var in service.CreateContentInput
	if ok, err := parseBody(c, &in); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	content, err := s.contents.Create(ctx, currentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Content created successfully",
		"content": content,
	})
}

// GetContents handles GET /contents?contentId= for one content and
// GET /contents?userId= for a listing, optionally by one author.
func (s *Server) GetContents(c *fiber.Ctx) error {
	viewerID := middleware.CurrentUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	if contentID := c.Query("contentId"); contentID != "" {
		content, err := s.contents.Get(ctx, contentID, viewerID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"content": content})
	}

	contents, err := s.contents.List(ctx, c.Query("userId"), viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"contents": contents})
}

type likeRequest struct {
	ContentID string `json:"contentId"`
}

// ToggleLike handles POST /contents/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	var in likeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := s.contents.ToggleLike(ctx, in.ContentID, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	message := "Post unliked"
	if res.Liked {
		message = "Post liked"
	}
	return c.JSON(fiber.Map{
		"message":    message,
		"liked":      res.Liked,
		"likesCount": res.LikesCount,
	})
}
