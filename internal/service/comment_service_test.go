package service

import (
	"context"
	"strings"
	"testing"

	"agora/internal/models"
	"agora/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_Add_Validation(t *testing.T) {
	t.Parallel()
	s := newServices(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	c := s.post(t, alice, "hello")

	tests := []struct {
		name string
		in   AddCommentInput
		code string
	}{
		{"missing content id", AddCommentInput{Text: "hi"}, models.CodeValidation},
		{"blank text", AddCommentInput{ContentID: c.ID, Text: "   "}, models.CodeValidation},
		{"text too long", AddCommentInput{ContentID: c.ID, Text: strings.Repeat("x", MaxCommentLength+1)}, models.CodeValidation},
		{"missing content", AddCommentInput{ContentID: "missing", Text: "hi"}, models.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.comments.Add(ctx, *alice, tt.in)
			assertCode(t, err, tt.code)
		})
	}

	got, err := s.store.Contents.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CommentCount)
}

func TestCommentService_Lifecycle(t *testing.T) {
	t.Parallel()
	s := newServices(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	c := s.post(t, alice, "hello")

	first, err := s.comments.Add(ctx, *bob, AddCommentInput{ContentID: c.ID, Text: "  nice  "})
	require.NoError(t, err)
	assert.Equal(t, "nice", first.Text)
	assert.Equal(t, "bob", first.AuthorUsername)

	second, err := s.comments.Add(ctx, *alice, AddCommentInput{ContentID: c.ID, Text: "thanks"})
	require.NoError(t, err)

	got, err := s.store.Contents.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CommentCount)

	list, err := s.comments.List(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	assertCode(t, s.comments.Delete(ctx, first.ID, alice.ID), models.CodeForbidden)
	assertCode(t, s.comments.Delete(ctx, "missing", bob.ID), models.CodeNotFound)
	require.NoError(t, s.comments.Delete(ctx, first.ID, bob.ID))
	assertCode(t, s.comments.Delete(ctx, first.ID, bob.ID), models.CodeNotFound)

	got, err = s.store.Contents.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount)

	empty, err := s.comments.List(ctx, "nothing-here")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCommentService_Add_UsesCurrentProfile(t *testing.T) {
	t.Parallel()
	s := newServices(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	c := s.post(t, alice, "hello")

	// alice is the snapshot a session would still carry after the edit.
	picture := testutil.PNGDataURI()
	_, err := s.users.UpdateProfile(ctx, alice.ID, alice.ID, UpdateProfileInput{
		Username:       "alice2",
		ProfilePicture: &picture,
	})
	require.NoError(t, err)

	view, err := s.comments.Add(ctx, *alice, AddCommentInput{ContentID: c.ID, Text: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", view.AuthorUsername)
	assert.Equal(t, picture, view.AuthorProfilePicture)

	stored, err := s.store.Comments.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", stored.AuthorUsername)

	content, err := s.contents.Create(ctx, *alice, CreateContentInput{Text: "after rename"})
	require.NoError(t, err)
	persisted, err := s.store.Contents.GetByID(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", persisted.AuthorUsername)
}
