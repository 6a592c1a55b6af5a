package service

import (
	"context"
	"errors"
	"strings"

	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/repository"
	"agora/internal/session"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles login, logout and session status.
type AuthService struct {
	users    repository.UserRepository
	sessions session.Store
}

// LoginInput is the payload for logging in.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewAuthService returns an AuthService.
func NewAuthService(users repository.UserRepository, sessions session.Store) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Login verifies credentials and opens a session. Unknown users and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*session.Session, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	sess, err := s.sessions.Create(ctx, *user)
	if err != nil {
		return nil, internal(ctx, "create session", err)
	}
	return &sess, nil
}

// Logout revokes the session identified by token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return models.NewValidationError("No session token provided")
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return models.NewNotFoundError("Session", nil)
		}
		return internal(ctx, "revoke session", err)
	}
	return nil
}

// Status reports whether token names a live session. It never fails: absent,
// unknown and unreadable tokens all report false.
func (s *AuthService) Status(ctx context.Context, token string) (*models.User, bool) {
	if token == "" {
		return nil, false
	}
	sess, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		observability.Ctx(ctx).Warn().Err(err).Msg("session lookup failed")
		return nil, false
	}
	if sess == nil {
		return nil, false
	}

	user := sess.User
	if current, err := s.users.GetByID(ctx, sess.User.ID); err == nil {
		user = current.Sanitized()
	}
	return &user, true
}
