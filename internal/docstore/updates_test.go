package docstore

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestLikeFilter(t *testing.T) {
	assert.Equal(t, bson.M{"_id": "c1", "likes": bson.M{"$ne": "u1"}}, likeFilter("c1", "u1", true))
	assert.Equal(t, bson.M{"_id": "c1", "likes": "u1"}, likeFilter("c1", "u1", false))
}

func TestLikeUpdate_MovesSetAndCountTogether(t *testing.T) {
	add := likeUpdate("u1", true)
	assert.Equal(t, bson.M{"likes": "u1"}, add["$addToSet"])
	assert.Equal(t, bson.M{"likes_count": 1}, add["$inc"])
	assert.NotContains(t, add, "$pull")

	remove := likeUpdate("u1", false)
	assert.Equal(t, bson.M{"likes": "u1"}, remove["$pull"])
	assert.Equal(t, bson.M{"likes_count": -1}, remove["$inc"])
	assert.NotContains(t, remove, "$addToSet")
}

func TestCounterFilter_ClampsDecrements(t *testing.T) {
	assert.Equal(t, bson.M{"_id": "u1"}, counterFilter("u1", "follower_count", 1))
	assert.Equal(t,
		bson.M{"_id": "c1", "comment_count": bson.M{"$gt": 0}},
		counterFilter("c1", "comment_count", -1),
	)
	assert.Equal(t, bson.M{"$inc": bson.M{"comment_count": -1}}, counterUpdate("comment_count", -1))
}

func TestFollowCounters(t *testing.T) {
	got := followCounters("alice", "bob")
	assert.Equal(t, [2]string{"bob", "follower_count"}, got[0])
	assert.Equal(t, [2]string{"alice", "following_count"}, got[1])
}

// toggle runs the two conditional updates in the order ToggleLike issues
// them against an in-memory document.
func toggle(t *testing.T, doc *contentDoc, userID string) bool {
	t.Helper()
	for _, add := range []bool{true, false} {
		if !matchesLike(t, doc, likeFilter(doc.ID, userID, add)) {
			continue
		}
		applyLike(t, doc, likeUpdate(userID, add))
		return add
	}
	t.Fatalf("no branch matched content %s", doc.ID)
	return false
}

func matchesLike(t *testing.T, doc *contentDoc, filter bson.M) bool {
	t.Helper()
	if filter["_id"] != doc.ID {
		return false
	}
	switch cond := filter["likes"].(type) {
	case bson.M:
		return !slices.Contains(doc.Likes, cond["$ne"].(string))
	case string:
		return slices.Contains(doc.Likes, cond)
	}
	require.FailNow(t, "unexpected likes condition", "%v", filter["likes"])
	return false
}

func applyLike(t *testing.T, doc *contentDoc, update bson.M) {
	t.Helper()
	if set, ok := update["$addToSet"].(bson.M); ok {
		if id := set["likes"].(string); !slices.Contains(doc.Likes, id) {
			doc.Likes = append(doc.Likes, id)
		}
	}
	if pull, ok := update["$pull"].(bson.M); ok {
		id := pull["likes"].(string)
		doc.Likes = slices.DeleteFunc(doc.Likes, func(s string) bool { return s == id })
	}
	doc.LikesCount += update["$inc"].(bson.M)["likes_count"].(int)
}

func TestLikeToggle_CountMatchesSet(t *testing.T) {
	doc := &contentDoc{ID: "c1", Likes: []string{}}

	assert.True(t, toggle(t, doc, "alice"))
	assert.True(t, toggle(t, doc, "bob"))
	assert.Equal(t, 2, doc.LikesCount)

	assert.False(t, toggle(t, doc, "alice"), "second toggle unlikes")
	assert.Equal(t, []string{"bob"}, doc.Likes)
	assert.Equal(t, len(doc.Likes), doc.LikesCount)

	assert.True(t, toggle(t, doc, "alice"))
	assert.False(t, toggle(t, doc, "alice"))
	assert.Equal(t, 1, doc.LikesCount, "double toggle leaves the state unchanged")
	assert.Equal(t, len(doc.Likes), doc.LikesCount)
}
