package server

import (
	"agora/internal/middleware"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateUser handles POST /users
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var in service.RegisterInput
	if ok, err := parseBody(c, &in); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.users.Register(ctx, in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// GetUsers handles GET /users?search=&userId=
// The viewer is the session user, or the userId query parameter.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	viewerID := middleware.CurrentUserID(c)
	if viewerID == "" {
		viewerID = c.Query("userId")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := s.users.List(ctx, service.ListUsersInput{
		Search:   c.Query("search"),
		ViewerID: viewerID,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"users": users})
}

// UpdateUser handles PUT /users/:id
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var in service.UpdateProfileInput
	if ok, err := parseBody(c, &in); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.users.UpdateProfile(ctx, middleware.CurrentUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
