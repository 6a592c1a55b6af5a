package service

import (
	"context"
	"errors"
	"strings"

	"agora/internal/media"
	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/repository"
)

// MaxContentTextLength bounds the text of a content.
const MaxContentTextLength = 10000

// ContentService handles creating, reading and liking contents.
type ContentService struct {
	contents repository.ContentRepository
	images   repository.ImageRepository
	enricher *Enricher
}

// CreateContentInput is the payload for publishing a content. ImageData is
// either an inline data URI or an external URL.
type CreateContentInput struct {
	Text      string `json:"text"`
	ImageData string `json:"imageData"`
	ImageType string `json:"imageType"`
}

// LikeToggle is the outcome of ToggleLike.
type LikeToggle struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// NewContentService returns a ContentService.
func NewContentService(contents repository.ContentRepository, images repository.ImageRepository, enricher *Enricher) *ContentService {
	return &ContentService{contents: contents, images: images, enricher: enricher}
}

// Create publishes a content by author. Inline images are verified and stored
// as blobs; the content keeps only their reference.
func (s *ContentService) Create(ctx context.Context, author models.User, in CreateContentInput) (*models.ContentView, error) {
	text := strings.TrimSpace(in.Text)
	imageData := strings.TrimSpace(in.ImageData)
	if text == "" && imageData == "" {
		return nil, models.NewValidationError("Content must have text or an image")
	}
	if len(text) > MaxContentTextLength {
		return nil, models.NewValidationError("Content text is too long")
	}

	author, err := s.enricher.Author(ctx, author)
	if err != nil {
		return nil, err
	}

	content := &models.Content{
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		Text:           text,
	}

	switch {
	case imageData == "":
	case media.IsDataURI(imageData):
		decoded, err := media.DecodeDataURI(imageData, in.ImageType)
		if err != nil {
			if errors.Is(err, media.ErrImageTooLarge) {
				return nil, models.NewValidationError("Image is too large")
			}
			return nil, models.NewValidationError("Image data is not a valid image")
		}
		img := &models.Image{Data: decoded.Data, ContentType: decoded.ContentType}
		if err := s.images.Create(ctx, img); err != nil {
			return nil, err
		}
		content.ImageID = img.ID
	default:
		content.ImageURL = imageData
	}

	if err := s.contents.Create(ctx, content); err != nil {
		return nil, err
	}
	observability.RecordSocialEvent("content", "create")

	views, err := s.enricher.Contents(ctx, []models.Content{*content}, author.ID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Get returns one enriched content.
func (s *ContentService) Get(ctx context.Context, contentID, viewerID string) (*models.ContentView, error) {
	if contentID == "" {
		return nil, models.NewValidationError("Content ID is required")
	}
	content, err := s.contents.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	views, err := s.enricher.Contents(ctx, []models.Content{*content}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns enriched contents newest first, optionally by one author.
func (s *ContentService) List(ctx context.Context, authorID, viewerID string) ([]models.ContentView, error) {
	contents, err := s.contents.List(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.enricher.Contents(ctx, contents, viewerID)
}

// ToggleLike likes the content for userID, or unlikes it if already liked.
func (s *ContentService) ToggleLike(ctx context.Context, contentID, userID string) (*LikeToggle, error) {
	if strings.TrimSpace(contentID) == "" {
		return nil, models.NewValidationError("Content ID is required")
	}
	if userID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	res, err := s.contents.ToggleLike(ctx, contentID, userID)
	if err != nil {
		return nil, err
	}

	action := "unlike"
	if res.Liked {
		action = "like"
	}
	observability.RecordSocialEvent("like", action)
	return &LikeToggle{Liked: res.Liked, LikesCount: res.LikesCount}, nil
}
