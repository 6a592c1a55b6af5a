package docstore

import (
	"context"
	"errors"
	"regexp"

	"agora/internal/models"
	"agora/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type userRepository struct {
	users   *mongo.Collection
	follows *mongo.Collection
}

// NewUserRepository creates a UserRepository on db.
func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userRepository{
		users:   db.Collection(usersCollection),
		follows: db.Collection(followsCollection),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	doc := newUserDoc(user)
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewConflictError("Username or email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var doc userDoc
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	u := doc.model()
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc userDoc
	if err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	u := doc.model()
	return &u, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *userRepository) Search(ctx context.Context, query string) ([]models.User, error) {
	filter := bson.M{}
	if query != "" {
		filter["username"] = bson.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
}

func (r *userRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]models.User, error) {
	cursor, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, models.NewInternalError(err)
	}
	users := make([]models.User, len(docs))
	for i, d := range docs {
		users[i] = d.model()
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	res, err := r.users.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"username":        user.Username,
		"bio":             user.Bio,
		"profile_picture": user.ProfilePicture,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewConflictError("Username already exists")
		}
		return models.NewInternalError(err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("User", user.ID)
	}
	return nil
}

// ReconcileFollowCounts groups the edges by each endpoint and rewrites the
// users whose stored counters disagree.
func (r *userRepository) ReconcileFollowCounts(ctx context.Context) (int64, error) {
	followers, err := countBy(ctx, r.follows, "$following_id")
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	following, err := countBy(ctx, r.follows, "$follower_id")
	if err != nil {
		return 0, models.NewInternalError(err)
	}

	cursor, err := r.users.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{
		"follower_count": 1, "following_count": 1,
	}))
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var fixed int64
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return fixed, models.NewInternalError(err)
		}
		wantFollowers, wantFollowing := followers[doc.ID], following[doc.ID]
		if doc.FollowerCount == wantFollowers && doc.FollowingCount == wantFollowing {
			continue
		}
		if _, err := r.users.UpdateByID(ctx, doc.ID, bson.M{"$set": bson.M{
			"follower_count":  wantFollowers,
			"following_count": wantFollowing,
		}}); err != nil {
			return fixed, models.NewInternalError(err)
		}
		fixed++
	}
	if err := cursor.Err(); err != nil {
		return fixed, models.NewInternalError(err)
	}
	return fixed, nil
}

// countBy counts the documents of coll per value of the field expression key.
func countBy(ctx context.Context, coll *mongo.Collection, key string) (map[string]int, error) {
	cursor, err := coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": key, "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID string `bson:"_id"`
		N  int    `bson:"n"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.N
	}
	return counts, nil
}
