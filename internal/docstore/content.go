package docstore

import (
	"context"
	"errors"

	"agora/internal/models"
	"agora/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// toggleAttempts bounds the retries of a like toggle racing a concurrent toggle
// by the same user.
const toggleAttempts = 3

// withoutLikes keeps the likes set out of listings.
var withoutLikes = bson.M{"likes": 0}

type contentRepository struct {
	contents *mongo.Collection
	comments *mongo.Collection
}

// NewContentRepository creates a ContentRepository on db.
func NewContentRepository(db *mongo.Database) repository.ContentRepository {
	return &contentRepository{
		contents: db.Collection(contentsCollection),
		comments: db.Collection(commentsCollection),
	}
}

func (r *contentRepository) Create(ctx context.Context, content *models.Content) error {
	if _, err := r.contents.InsertOne(ctx, newContentDoc(content)); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*models.Content, error) {
	var doc contentDoc
	err := r.contents.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(withoutLikes)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("Content", id)
		}
		return nil, models.NewInternalError(err)
	}
	c := doc.model()
	return &c, nil
}

func (r *contentRepository) List(ctx context.Context, authorID string) ([]models.Content, error) {
	filter := bson.M{}
	if authorID != "" {
		filter["author_id"] = authorID
	}
	return r.find(ctx, filter)
}

func (r *contentRepository) ListByAuthors(ctx context.Context, authorIDs []string) ([]models.Content, error) {
	if len(authorIDs) == 0 {
		return []models.Content{}, nil
	}
	return r.find(ctx, bson.M{"author_id": bson.M{"$in": authorIDs}})
}

func (r *contentRepository) find(ctx context.Context, filter bson.M) ([]models.Content, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetProjection(withoutLikes)
	cursor, err := r.contents.Find(ctx, filter, opts)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	var docs []contentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, models.NewInternalError(err)
	}
	contents := make([]models.Content, len(docs))
	for i, d := range docs {
		contents[i] = d.model()
	}
	return contents, nil
}

// ToggleLike adds userID to the likes set if absent, otherwise removes it.
// Each branch is one conditional update returning the document after the
// change, so membership and count never diverge.
func (r *contentRepository) ToggleLike(ctx context.Context, contentID, userID string) (repository.LikeResult, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likes_count": 1})

	for attempt := 0; attempt < toggleAttempts; attempt++ {
		var doc contentDoc
		err := r.contents.FindOneAndUpdate(ctx,
			likeFilter(contentID, userID, true), likeUpdate(userID, true), opts,
		).Decode(&doc)
		if err == nil {
			return repository.LikeResult{Liked: true, LikesCount: doc.LikesCount}, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return repository.LikeResult{}, models.NewInternalError(err)
		}

		err = r.contents.FindOneAndUpdate(ctx,
			likeFilter(contentID, userID, false), likeUpdate(userID, false), opts,
		).Decode(&doc)
		if err == nil {
			return repository.LikeResult{Liked: false, LikesCount: doc.LikesCount}, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return repository.LikeResult{}, models.NewInternalError(err)
		}

		n, err := r.contents.CountDocuments(ctx, bson.M{"_id": contentID})
		if err != nil {
			return repository.LikeResult{}, models.NewInternalError(err)
		}
		if n == 0 {
			return repository.LikeResult{}, models.NewNotFoundError("Content", contentID)
		}
	}
	return repository.LikeResult{}, models.NewConflictError("Like state changed concurrently, please retry")
}

func (r *contentRepository) LikedContentIDs(ctx context.Context, userID string, contentIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if userID == "" || len(contentIDs) == 0 {
		return liked, nil
	}
	cursor, err := r.contents.Find(ctx,
		bson.M{"_id": bson.M{"$in": contentIDs}, "likes": userID},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		liked[row.ID] = true
	}
	return liked, nil
}

// ReconcileCounts rewrites likes_count from the embedded likes set and
// comment_count from the comments collection.
func (r *contentRepository) ReconcileCounts(ctx context.Context) (int64, error) {
	comments, err := countBy(ctx, r.comments, "$content_id")
	if err != nil {
		return 0, models.NewInternalError(err)
	}

	cursor, err := r.contents.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"likes_count":   1,
			"comment_count": 1,
			"actual_likes":  bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}},
		}}},
	})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var fixed int64
	for cursor.Next(ctx) {
		var row struct {
			ID           string `bson:"_id"`
			LikesCount   int    `bson:"likes_count"`
			CommentCount int    `bson:"comment_count"`
			ActualLikes  int    `bson:"actual_likes"`
		}
		if err := cursor.Decode(&row); err != nil {
			return fixed, models.NewInternalError(err)
		}
		wantComments := comments[row.ID]
		if row.LikesCount == row.ActualLikes && row.CommentCount == wantComments {
			continue
		}
		if _, err := r.contents.UpdateByID(ctx, row.ID, bson.M{"$set": bson.M{
			"likes_count":   row.ActualLikes,
			"comment_count": wantComments,
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
