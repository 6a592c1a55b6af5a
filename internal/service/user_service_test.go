package service

import (
	"context"
	"strings"
	"testing"

	"agora/internal/models"
	"agora/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	t.Parallel()
	s := newServices(t)
	ctx := context.Background()

	u, err := s.users.Register(ctx, RegisterInput{
		Username: "  alice ",
		Email:    "Alice@Example.COM",
		Password: "secret123",
		Bio:      "hi",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Empty(t, u.Password)
	assert.Zero(t, u.FollowerCount)
	assert.Zero(t, u.FollowingCount)

	stored, err := s.store.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestUserService_Register_Validation(t *testing.T) {
	t.Parallel()
	s := newServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing username", RegisterInput{Email: "a@b.com", Password: "secret123"}},
		{"bad email", RegisterInput{Username: "alice", Email: "nope", Password: "secret123"}},
		{"short password", RegisterInput{Username: "alice", Email: "a@b.com", Password: "123"}},
		{"bio too long", RegisterInput{Username: "alice", Email: "a@b.com", Password: "secret123", Bio: strings.Repeat("x", 501)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.users.Register(ctx, tt.in)
			assertCode(t, err, models.CodeValidation)
		})
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	t.Parallel()
	s := newServices(t)
	ctx := context.Background()
	s.register(t, "alice")

	_, err := s.users.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret123"})
	assertCode(t, err, models.CodeConflict)

	_, err = s.users.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "secret123"})
	assertCode(t, err, models.CodeConflict)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()
	s := newServices(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := s.users.UpdateProfile(ctx, bob.ID, alice.ID, UpdateProfileInput{Username: "mallory"})
		assertCode(t, err, models.CodeForbidden)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := s.users.UpdateProfile(ctx, "nope", "nope", UpdateProfileInput{Username: "ghost"})
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := s.users.UpdateProfile(ctx, alice.ID, alice.ID, UpdateProfileInput{Username: "bob"})
		assertCode(t, err, models.CodeConflict)
	})

	t.Run("invalid inline picture", func(t *testing.T) {
		bad := "data:image/png;base64,bm90IGFuIGltYWdl"
		_, err := s.users.UpdateProfile(ctx, alice.ID, alice.ID, UpdateProfileInput{Username: "alice", ProfilePicture: &bad})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("updates in place", func(t *testing.T) {
		pic := testutil.PNGDataURI()
		u, err := s.users.UpdateProfile(ctx, alice.ID, alice.ID, UpdateProfileInput{
			Username:       "alice_w",
			Bio:            "new bio",
			ProfilePicture: &pic,
		})
		require.NoError(t, err)
		assert.Equal(t, "alice_w", u.Username)
		assert.Empty(t, u.Password)

		stored, err := s.store.Users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "new bio", stored.Bio)
		assert.Equal(t, pic, stored.ProfilePicture)
	})

	t.Run("nil picture keeps the current one", func(t *testing.T) {
		_, err := s.users.UpdateProfile(ctx, alice.ID, alice.ID, UpdateProfileInput{Username: "alice_w", Bio: "again"})
		require.NoError(t, err)
		stored, err := s.store.Users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, testutil.PNGDataURI(), stored.ProfilePicture)
	})
}

func TestUserService_List(t *testing.T) {
	t.Parallel()
	s := newServices(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	s.register(t, "bobby")

	_, err := s.follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	t.Run("anonymous has no viewer block", func(t *testing.T) {
		users, err := s.users.List(ctx, ListUsersInput{})
		require.NoError(t, err)
		assert.Len(t, users, 3)
		for _, u := range users {
			assert.Nil(t, u.Viewer)
			assert.Empty(t, u.Password)
		}
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		users, err := s.users.List(ctx, ListUsersInput{Search: "BOB"})
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		users, err := s.users.List(ctx, ListUsersInput{Search: "%"})
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("viewer sees follow state", func(t *testing.T) {
		users, err := s.users.List(ctx, ListUsersInput{Search: "bob", ViewerID: alice.ID})
		require.NoError(t, err)
		require.Len(t, users, 2)
		for _, u := range users {
			require.NotNil(t, u.Viewer)
			assert.Equal(t, u.ID == bob.ID, u.Viewer.IsFollowing)
		}
	})
}
