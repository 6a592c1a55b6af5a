package server

import (
	"agora/internal/middleware"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Login handles POST /login
func (s *Server) Login(c *fiber.Ctx) error {
	var in service.LoginInput
	if ok, err := parseBody(c, &in); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	sess, err := s.auth.Login(ctx, in)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   sess.Token,
		"user":    sess.User,
	})
}

// LoginStatus handles GET /login
func (s *Server) LoginStatus(c *fiber.Ctx) error {
	token := middleware.BearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"loggedIn": false,
			"message":  "No session token provided",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, ok := s.auth.Status(ctx, token)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"loggedIn": false,
			"message":  "Invalid or expired session",
		})
	}

	return c.JSON(fiber.Map{
		"loggedIn": true,
		"user":     user,
	})
}

// Logout handles DELETE /login
func (s *Server) Logout(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := s.auth.Logout(ctx, middleware.BearerToken(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Logout successful"})
}
