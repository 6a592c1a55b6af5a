package docstore

import (
	"context"
	"errors"

	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type commentRepository struct {
	comments *mongo.Collection
	contents *mongo.Collection
}

// NewCommentRepository creates a CommentRepository on db.
func NewCommentRepository(db *mongo.Database) repository.CommentRepository {
	return &commentRepository{
		comments: db.Collection(commentsCollection),
		contents: db.Collection(contentsCollection),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	n, err := r.contents.CountDocuments(ctx, bson.M{"_id": comment.ContentID})
	if err != nil {
		return models.NewInternalError(err)
	}
	if n == 0 {
		return models.NewNotFoundError("Content", comment.ContentID)
	}

	if _, err := r.comments.InsertOne(ctx, newCommentDoc(comment)); err != nil {
		return models.NewInternalError(err)
	}
	r.adjustCount(ctx, comment.ContentID, 1)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var doc commentDoc
	if err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	c := doc.model()
	return &c, nil
}

func (r *commentRepository) ListByContent(ctx context.Context, contentID string) ([]models.Comment, error) {
	cursor, err := r.comments.Find(ctx,
		bson.M{"content_id": contentID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	var docs []commentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, models.NewInternalError(err)
	}
	comments := make([]models.Comment, len(docs))
	for i, d := range docs {
		comments[i] = d.model()
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": comment.ID})
	if err != nil {
		return models.NewInternalError(err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("Comment", comment.ID)
	}
	r.adjustCount(ctx, comment.ContentID, -1)
	return nil
}

func (r *commentRepository) adjustCount(ctx context.Context, contentID string, delta int) {
	filter := counterFilter(contentID, "comment_count", delta)
	if _, err := r.contents.UpdateOne(ctx, filter, counterUpdate("comment_count", delta)); err != nil {
		observability.Ctx(ctx).Warn().Err(err).
			Str("content_id", contentID).
			Msg("comment counter update failed")
	}
}
