package repository

import (
	"context"
	"testing"

	"agora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertFollowCounts(t *testing.T, s *Store, user *models.User, followers, following int) {
	t.Helper()
	got, err := s.Users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, followers, got.FollowerCount, "followerCount of %s", user.Username)
	assert.Equal(t, following, got.FollowingCount, "followingCount of %s", user.Username)
}

func TestFollowRepository_CreateAndDeleteMaintainCounters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	follow := &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}
	require.NoError(t, s.Follows.Create(ctx, follow))
	assert.NotEmpty(t, follow.ID)
	assertFollowCounts(t, s, alice, 0, 1)
	assertFollowCounts(t, s, bob, 1, 0)

	err := s.Follows.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
	assert.True(t, models.IsCode(err, models.CodeConflict))
	assertFollowCounts(t, s, alice, 0, 1)
	assertFollowCounts(t, s, bob, 1, 0)

	ids, err := s.Follows.FollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, ids)

	set, err := s.Follows.FollowingSet(ctx, alice.ID, []string{bob.ID, alice.ID})
	require.NoError(t, err)
	assert.True(t, set[bob.ID])
	assert.False(t, set[alice.ID])

	require.NoError(t, s.Follows.Delete(ctx, alice.ID, bob.ID))
	assertFollowCounts(t, s, alice, 0, 0)
	assertFollowCounts(t, s, bob, 0, 0)

	err = s.Follows.Delete(ctx, alice.ID, bob.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assertFollowCounts(t, s, bob, 0, 0)
}

func TestUserRepository_ReconcileFollowCounts(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	carol := createUser(t, s, "carol")

	require.NoError(t, s.Follows.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	require.NoError(t, s.Follows.Create(ctx, &models.Follow{FollowerID: carol.ID, FollowingID: bob.ID}))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", bob.ID).Update("follower_count", 9).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", carol.ID).Update("following_count", 0).Error)

	fixed, err := s.Users.ReconcileFollowCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fixed)

	assertFollowCounts(t, s, alice, 0, 1)
	assertFollowCounts(t, s, bob, 2, 0)
	assertFollowCounts(t, s, carol, 0, 1)
}
