// Package session implements the bearer-token session registry.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"agora/internal/models"
)

// TokenBytes is the amount of randomness in a session token.
const TokenBytes = 32

// ErrNotFound is returned by Revoke when the token is unknown.
var ErrNotFound = errors.New("session not found")

// Session is an authenticated user snapshot keyed by an opaque token.
type Session struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Store maps tokens to sessions. Implementations must be safe for concurrent use.
type Store interface {
	// Create issues a new token for a snapshot of user without its password.
	Create(ctx context.Context, user models.User) (Session, error)
	// Resolve returns nil without error when the token is unknown or expired.
	Resolve(ctx context.Context, token string) (*Session, error)
	// Revoke deletes the session, returning ErrNotFound for unknown tokens.
	Revoke(ctx context.Context, token string) error
}

// NewToken returns a hex-encoded random token.
func NewToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func newSession(user models.User, ttl time.Duration, now time.Time) (Session, error) {
	token, err := NewToken()
	if err != nil {
		return Session{}, err
	}
	s := Session{
		Token:     token,
		User:      user.Sanitized(),
		CreatedAt: now,
	}
	if ttl > 0 {
		exp := now.Add(ttl)
		s.ExpiresAt = &exp
	}
	return s, nil
}
