package service

import (
	"context"
	"sync/atomic"
	"testing"

	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/session"
	"agora/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type services struct {
	db       *gorm.DB
	store    *repository.Store
	sessions *session.MemoryStore
	users    *UserService
	auth     *AuthService
	contents *ContentService
	follows  *FollowService
	feed     *FeedService
	comments *CommentService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	s := newServicesWithStore(repository.NewGormStore(db, "sqlite"))
	s.db = db
	return s
}

func newServicesWithStore(store *repository.Store) *services {
	sessions := session.NewMemoryStore(0)
	enricher := NewEnricher(store.Users, store.Contents, store.Images)
	return &services{
		store:    store,
		sessions: sessions,
		users:    NewUserService(store.Users, store.Follows, bcrypt.MinCost),
		auth:     NewAuthService(store.Users, sessions),
		contents: NewContentService(store.Contents, store.Images, enricher),
		follows:  NewFollowService(store.Users, store.Follows),
		feed:     NewFeedService(store.Follows, store.Contents, enricher),
		comments: NewCommentService(store.Comments, enricher),
	}
}

func (s *services) register(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := s.users.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func (s *services) post(t *testing.T, author *models.User, text string) *models.ContentView {
	t.Helper()
	c, err := s.contents.Create(context.Background(), *author, CreateContentInput{Text: text})
	require.NoError(t, err)
	return c
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsCode(err, code), "expected %s, got %v", code, err)
}

// countingUsers counts batched user lookups.
type countingUsers struct {
	repository.UserRepository
	getByIDs atomic.Int32
}

func (c *countingUsers) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	c.getByIDs.Add(1)
	return c.UserRepository.GetByIDs(ctx, ids)
}

// countingContents counts liked-by-viewer lookups.
type countingContents struct {
	repository.ContentRepository
	likedIDs atomic.Int32
}

func (c *countingContents) LikedContentIDs(ctx context.Context, userID string, ids []string) (map[string]bool, error) {
	c.likedIDs.Add(1)
	return c.ContentRepository.LikedContentIDs(ctx, userID, ids)
}

// countingImages counts batched image lookups.
type countingImages struct {
	repository.ImageRepository
	getByIDs atomic.Int32
}

func (c *countingImages) GetByIDs(ctx context.Context, ids []string) ([]models.Image, error) {
	c.getByIDs.Add(1)
	return c.ImageRepository.GetByIDs(ctx, ids)
}
