package repository

import (
	"context"
	"errors"
	"time"

	"agora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var newestFirst = clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository returns a new ContentRepository implementation.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(ctx context.Context, content *models.Content) error {
	if err := r.db.WithContext(ctx).Create(content).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*models.Content, error) {
	var content models.Content
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &content, nil
}

func (r *contentRepository) List(ctx context.Context, authorID string) ([]models.Content, error) {
	var contents []models.Content
	q := r.db.WithContext(ctx).Order(newestFirst)
	if authorID != "" {
		q = q.Where("author_id = ?", authorID)
	}
	if err := q.Find(&contents).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return contents, nil
}

func (r *contentRepository) ListByAuthors(ctx context.Context, authorIDs []string) ([]models.Content, error) {
	authorIDs = uniqueIDs(authorIDs)
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var contents []models.Content
	if err := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order(newestFirst).
		Find(&contents).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return contents, nil
}

func (r *contentRepository) ToggleLike(ctx context.Context, contentID, userID string) (LikeResult, error) {
	var result LikeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var content models.Content
		if err := tx.Select("id").Where("id = ?", contentID).First(&content).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Content", contentID)
			}
			return err
		}

		removed := tx.Where("content_id = ? AND user_id = ?", contentID, userID).Delete(&models.Like{})
		if removed.Error != nil {
			return removed.Error
		}

		if removed.RowsAffected > 0 {
			if err := tx.Model(&models.Content{}).
				Where("id = ? AND likes_count > 0", contentID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
				return err
			}
		} else {
			added := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Like{
				ContentID: contentID,
				UserID:    userID,
				CreatedAt: time.Now().UTC(),
			})
			if added.Error != nil {
				return added.Error
			}
			if added.RowsAffected > 0 {
				if err := tx.Model(&models.Content{}).
					Where("id = ?", contentID).
					UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
					return err
				}
			}
			result.Liked = true
		}

		return tx.Model(&models.Content{}).
			Select("likes_count").
			Where("id = ?", contentID).
			Row().
			Scan(&result.LikesCount)
	})
	if err != nil {
		return LikeResult{}, toAppError(err)
	}
	return result, nil
}

func (r *contentRepository) LikedContentIDs(ctx context.Context, userID string, contentIDs []string) (map[string]bool, error) {
	contentIDs = uniqueIDs(contentIDs)
	liked := make(map[string]bool, len(contentIDs))
	if userID == "" || len(contentIDs) == 0 {
		return liked, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND content_id IN ?", userID, contentIDs).
		Pluck("content_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *contentRepository) ReconcileCounts(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE contents SET
			likes_count = (SELECT COUNT(*) FROM likes WHERE likes.content_id = contents.id),
			comment_count = (SELECT COUNT(*) FROM comments WHERE comments.content_id = contents.id)
		WHERE likes_count <> (SELECT COUNT(*) FROM likes WHERE likes.content_id = contents.id)
		   OR comment_count <> (SELECT COUNT(*) FROM comments WHERE comments.content_id = contents.id)`)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
