package docstore

import (
	"context"

	"agora/internal/models"
	"agora/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type imageRepository struct {
	images *mongo.Collection
}

// NewImageRepository creates an ImageRepository on db.
func NewImageRepository(db *mongo.Database) repository.ImageRepository {
	return &imageRepository{images: db.Collection(imagesCollection)}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	if _, err := r.images.InsertOne(ctx, newImageDoc(image)); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *imageRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Image, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.images.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	var docs []imageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, models.NewInternalError(err)
	}
	images := make([]models.Image, len(docs))
	for i, d := range docs {
		images[i] = d.model()
	}
	return images, nil
}
