package server

import (
	"agora/internal/middleware"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	var in service.AddCommentInput
	if ok, err := parseBody(c, &in); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := s.comments.Add(ctx, currentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// GetComments handles GET /comments/:contentId
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	comments, err := s.comments.List(ctx, c.Params("contentId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// DeleteComment handles DELETE /comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := s.comments.Delete(ctx, c.Params("id"), middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
