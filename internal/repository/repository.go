// Package repository defines the persistence contracts and their relational
// (gorm) implementation.
package repository

import (
	"context"
	"errors"
	"strings"

	"agora/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts a user; a duplicate username or email yields a Conflict error.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByUsername returns nil without error when no user matches.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
	// Search matches usernames case-insensitively; an empty query lists everyone.
	Search(ctx context.Context, query string) ([]models.User, error)
	// UpdateProfile writes username, bio and profile picture.
	UpdateProfile(ctx context.Context, user *models.User) error
	// ReconcileFollowCounts recomputes both follow counters from the edges and
	// returns how many users were corrected.
	ReconcileFollowCounts(ctx context.Context) (int64, error)
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked      bool
	LikesCount int
}

// ContentRepository defines persistence operations for contents and their likes.
type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error
	GetByID(ctx context.Context, id string) (*models.Content, error)
	// List returns contents newest first, optionally restricted to one author.
	List(ctx context.Context, authorID string) ([]models.Content, error)
	// ListByAuthors returns contents by any of the authors, newest first.
	ListByAuthors(ctx context.Context, authorIDs []string) ([]models.Content, error)
	// ToggleLike flips the user's membership in the likes set and returns the
	// count read back after the change.
	ToggleLike(ctx context.Context, contentID, userID string) (LikeResult, error)
	// LikedContentIDs reports which of contentIDs the user has liked.
	LikedContentIDs(ctx context.Context, userID string, contentIDs []string) (map[string]bool, error)
	// ReconcileCounts recomputes likesCount and commentCount and returns how many
	// contents were corrected.
	ReconcileCounts(ctx context.Context) (int64, error)
}

// FollowRepository defines persistence operations for follow edges. Edge
// mutations maintain the users' follower and following counters.
type FollowRepository interface {
	// Create inserts the edge; an existing edge yields a Conflict error.
	Create(ctx context.Context, follow *models.Follow) error
	// Delete removes the edge; a missing edge yields a NotFound error.
	Delete(ctx context.Context, followerID, followingID string) error
	FollowingIDs(ctx context.Context, followerID string) ([]string, error)
	// FollowingSet reports which of candidateIDs the follower follows.
	FollowingSet(ctx context.Context, followerID string, candidateIDs []string) (map[string]bool, error)
}

// CommentRepository defines persistence operations for comments. Mutations
// maintain the parent content's comment counter.
type CommentRepository interface {
	// Create inserts the comment; a missing parent content yields NotFound.
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// ListByContent returns the content's comments newest first.
	ListByContent(ctx context.Context, contentID string) ([]models.Comment, error)
	Delete(ctx context.Context, comment *models.Comment) error
}

// ImageRepository defines persistence operations for image blobs.
type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByIDs(ctx context.Context, ids []string) ([]models.Image, error)
}

// Store bundles the repositories backed by one database.
type Store struct {
	Backend  string
	Users    UserRepository
	Contents ContentRepository
	Follows  FollowRepository
	Comments CommentRepository
	Images   ImageRepository

	PingFunc  func(ctx context.Context) error
	CloseFunc func(ctx context.Context) error
}

// Ping checks connectivity with the underlying database.
func (s *Store) Ping(ctx context.Context) error {
	if s.PingFunc == nil {
		return nil
	}
	return s.PingFunc(ctx)
}

// Close releases the underlying database connection.
func (s *Store) Close(ctx context.Context) error {
	if s.CloseFunc == nil {
		return nil
	}
	return s.CloseFunc(ctx)
}

// NewGormStore returns a Store backed by a relational database.
func NewGormStore(db *gorm.DB, backend string) *Store {
	return &Store{
		Backend:  backend,
		Users:    NewUserRepository(db),
		Contents: NewContentRepository(db),
		Follows:  NewFollowRepository(db),
		Comments: NewCommentRepository(db),
		Images:   NewImageRepository(db),
		PingFunc: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		CloseFunc: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// toAppError passes AppErrors through and wraps everything else as internal.
func toAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// likePattern escapes LIKE wildcards and wraps query for substring matching.
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(query)) + "%"
}
