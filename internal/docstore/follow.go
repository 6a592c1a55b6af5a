package docstore

import (
	"context"

	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type followRepository struct {
	follows *mongo.Collection
	users   *mongo.Collection
}

// NewFollowRepository creates a FollowRepository on db.
func NewFollowRepository(db *mongo.Database) repository.FollowRepository {
	return &followRepository{
		follows: db.Collection(followsCollection),
		users:   db.Collection(usersCollection),
	}
}

// Create inserts the edge, then bumps both counters. The unique pair index
// gates the increments, so a retried follow cannot apply them twice.
func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if _, err := r.follows.InsertOne(ctx, newFollowDoc(follow)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewConflictError("Already following this user")
		}
		return models.NewInternalError(err)
	}
	r.adjustCounters(ctx, follow.FollowerID, follow.FollowingID, 1)
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	res, err := r.follows.DeleteOne(ctx, bson.M{"follower_id": followerID, "following_id": followingID})
	if err != nil {
		return models.NewInternalError(err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("Follow relationship", nil)
	}
	r.adjustCounters(ctx, followerID, followingID, -1)
	return nil
}

// adjustCounters applies delta to both users. Failures leave the counters
// stale for the reconciler rather than failing the committed edge change.
func (r *followRepository) adjustCounters(ctx context.Context, followerID, followingID string, delta int) {
	for _, u := range followCounters(followerID, followingID) {
		id, field := u[0], u[1]
		if _, err := r.users.UpdateOne(ctx, counterFilter(id, field, delta), counterUpdate(field, delta)); err != nil {
			observability.Ctx(ctx).Warn().Err(err).
				Str("user_id", id).
				Str("counter", field).
				Msg("follow counter update failed")
		}
	}
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	return r.following(ctx, bson.M{"follower_id": followerID})
}

func (r *followRepository) FollowingSet(ctx context.Context, followerID string, candidateIDs []string) (map[string]bool, error) {
	set := make(map[string]bool)
	if followerID == "" || len(candidateIDs) == 0 {
		return set, nil
	}
	ids, err := r.following(ctx, bson.M{"follower_id": followerID, "following_id": bson.M{"$in": candidateIDs}})
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *followRepository) following(ctx context.Context, filter bson.M) ([]string, error) {
	cursor, err := r.follows.Find(ctx, filter, options.Find().SetProjection(bson.M{"following_id": 1}))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	var docs []followDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, models.NewInternalError(err)
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.FollowingID
	}
	return ids, nil
}
