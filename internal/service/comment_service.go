package service

import (
	"context"
	"strings"

	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/repository"
)

// MaxCommentLength bounds the text of a comment.
const MaxCommentLength = 10000

// CommentService handles comments on contents.
type CommentService struct {
	comments repository.CommentRepository
	enricher *Enricher
}

// AddCommentInput is the payload for commenting on a content.
type AddCommentInput struct {
	ContentID string `json:"contentId"`
	Text      string `json:"text"`
}

// NewCommentService returns a CommentService.
func NewCommentService(comments repository.CommentRepository, enricher *Enricher) *CommentService {
	return &CommentService{comments: comments, enricher: enricher}
}

// Add attaches a comment by author to a content.
func (s *CommentService) Add(ctx context.Context, author models.User, in AddCommentInput) (*models.CommentView, error) {
	contentID := strings.TrimSpace(in.ContentID)
	text := strings.TrimSpace(in.Text)
	if contentID == "" || author.ID == "" {
		return nil, models.NewValidationError("Content ID is required")
	}
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > MaxCommentLength {
		return nil, models.NewValidationError("Comment is too long")
	}

	author, err := s.enricher.Author(ctx, author)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ContentID:      contentID,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		Text:           text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.RecordSocialEvent("comment", "create")

	views, err := s.enricher.Comments(ctx, []models.Comment{*comment})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns a content's comments newest first.
func (s *CommentService) List(ctx context.Context, contentID string) ([]models.CommentView, error) {
	comments, err := s.comments.ListByContent(ctx, strings.TrimSpace(contentID))
	if err != nil {
		return nil, err
	}
	return s.enricher.Comments(ctx, comments)
}

// Delete removes a comment. Only its author may delete it.
func (s *CommentService) Delete(ctx context.Context, commentID, requesterID string) error {
	comment, err := s.comments.GetByID(ctx, strings.TrimSpace(commentID))
	if err != nil {
		return err
	}
	if comment.AuthorID != requesterID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	if err := s.comments.Delete(ctx, comment); err != nil {
		return err
	}
	observability.RecordSocialEvent("comment", "delete")
	return nil
}
