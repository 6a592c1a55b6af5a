package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_Feed(t *testing.T) {
	t.Parallel()
	s := newServices(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	carol := s.register(t, "carol")

	feed, err := s.feed.Feed(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)

	s.post(t, alice, "mine")
	older := s.post(t, bob, "bob one")
	s.post(t, carol, "carol one")
	newer := s.post(t, bob, "bob two")

	_, err = s.follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	feed, err = s.feed.Feed(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, newer.ID, feed[0].ID)
	assert.Equal(t, older.ID, feed[1].ID)
	for _, item := range feed {
		assert.Equal(t, bob.ID, item.AuthorID)
		require.NotNil(t, item.Viewer)
	}
}
