package repository

import (
	"context"
	"testing"
	"time"

	"agora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRepository_ListNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	base := time.Now().UTC().Add(-time.Hour)
	first := createContent(t, s, alice, "first", base)
	second := createContent(t, s, bob, "second", base.Add(time.Minute))
	third := createContent(t, s, alice, "third", base.Add(2*time.Minute))

	all, err := s.Contents.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	byAlice, err := s.Contents.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, byAlice, 2)
	assert.Equal(t, third.ID, byAlice[0].ID)

	byAuthors, err := s.Contents.ListByAuthors(ctx, []string{bob.ID})
	require.NoError(t, err)
	require.Len(t, byAuthors, 1)
	assert.Equal(t, second.ID, byAuthors[0].ID)

	none, err := s.Contents.ListByAuthors(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContentRepository_GetByID(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	c := createContent(t, s, alice, "hello", time.Time{})

	got, err := s.Contents.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "alice", got.AuthorUsername)
	assert.False(t, got.Timestamp.IsZero())

	_, err = s.Contents.GetByID(ctx, "missing")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestContentRepository_ToggleLikeIsIdempotentPair(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	c := createContent(t, s, bob, "hello", time.Time{})

	res, err := s.Contents.ToggleLike(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, LikesCount: 1}, res)

	res, err = s.Contents.ToggleLike(ctx, c.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, LikesCount: 2}, res)

	liked, err := s.Contents.LikedContentIDs(ctx, alice.ID, []string{c.ID, "other"})
	require.NoError(t, err)
	assert.True(t, liked[c.ID])
	assert.False(t, liked["other"])

	res, err = s.Contents.ToggleLike(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: false, LikesCount: 1}, res)

	liked, err = s.Contents.LikedContentIDs(ctx, alice.ID, []string{c.ID})
	require.NoError(t, err)
	assert.False(t, liked[c.ID])

	_, err = s.Contents.ToggleLike(ctx, "missing", alice.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestContentRepository_ReconcileCounts(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	c := createContent(t, s, alice, "hello", time.Time{})

	_, err := s.Contents.ToggleLike(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, s.Comments.Create(ctx, &models.Comment{ContentID: c.ID, AuthorID: alice.ID, AuthorUsername: "alice", Text: "x"}))

	fixed, err := s.Contents.ReconcileCounts(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixed, "consistent counters need no repair")

	require.NoError(t, db.Model(&models.Content{}).Where("id = ?", c.ID).
		Updates(map[string]interface{}{"likes_count": 7, "comment_count": 0}).Error)

	fixed, err = s.Contents.ReconcileCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fixed)

	got, err := s.Contents.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, 1, got.CommentCount)
}

func TestImageRepository_CreateAndBatchLoad(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a := &models.Image{Data: []byte{1, 2, 3}, ContentType: "image/png"}
	b := &models.Image{Data: []byte{4}, ContentType: "image/jpeg"}
	require.NoError(t, s.Images.Create(ctx, a))
	require.NoError(t, s.Images.Create(ctx, b))
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.UploadedAt.IsZero())

	images, err := s.Images.GetByIDs(ctx, []string{a.ID, b.ID, a.ID})
	require.NoError(t, err)
	require.Len(t, images, 2)

	byID := map[string]models.Image{}
	for _, img := range images {
		byID[img.ID] = img
	}
	assert.Equal(t, []byte{1, 2, 3}, byID[a.ID].Data)
	assert.Equal(t, "image/jpeg", byID[b.ID].ContentType)
}
