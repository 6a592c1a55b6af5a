package service

import (
	"context"

	"agora/internal/media"
	"agora/internal/models"
	"agora/internal/repository"
)

// Enricher decorates contents and comments for presentation. Each call issues
// at most one query per related collection, whatever the number of rows.
type Enricher struct {
	users    repository.UserRepository
	contents repository.ContentRepository
	images   repository.ImageRepository
}

// NewEnricher returns an Enricher.
func NewEnricher(users repository.UserRepository, contents repository.ContentRepository, images repository.ImageRepository) *Enricher {
	return &Enricher{users: users, contents: contents, images: images}
}

// Contents inlines images, attaches author pictures and, with a viewer,
// marks the contents the viewer has liked.
func (e *Enricher) Contents(ctx context.Context, contents []models.Content, viewerID string) ([]models.ContentView, error) {
	views := make([]models.ContentView, len(contents))
	if len(contents) == 0 {
		return views, nil
	}

	contentIDs := make([]string, 0, len(contents))
	authorIDs := make([]string, 0, len(contents))
	imageIDs := make([]string, 0, len(contents))
	for _, c := range contents {
		contentIDs = append(contentIDs, c.ID)
		authorIDs = append(authorIDs, c.AuthorID)
		if c.ImageID != "" {
			imageIDs = append(imageIDs, c.ImageID)
		}
	}

	authors, err := e.authorsByID(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	imageData := make(map[string]string, len(imageIDs))
	if len(imageIDs) > 0 {
		images, err := e.images.GetByIDs(ctx, imageIDs)
		if err != nil {
			return nil, err
		}
		for _, img := range images {
			imageData[img.ID] = media.EncodeDataURI(img.ContentType, img.Data)
		}
	}

	var liked map[string]bool
	if viewerID != "" {
		liked, err = e.contents.LikedContentIDs(ctx, viewerID, contentIDs)
		if err != nil {
			return nil, err
		}
	}

	for i, c := range contents {
		view := models.ContentView{Content: c, ImageData: imageData[c.ImageID]}
		if author, ok := authors[c.AuthorID]; ok {
			view.AuthorUsername = author.Username
			view.AuthorProfilePicture = author.ProfilePicture
		}
		if viewerID != "" {
			view.Viewer = &models.ContentViewer{IsLiked: liked[c.ID]}
		}
		views[i] = view
	}
	return views, nil
}

// Comments attaches the authors' current username and picture.
func (e *Enricher) Comments(ctx context.Context, comments []models.Comment) ([]models.CommentView, error) {
	views := make([]models.CommentView, len(comments))
	if len(comments) == 0 {
		return views, nil
	}

	authorIDs := make([]string, len(comments))
	for i, c := range comments {
		authorIDs[i] = c.AuthorID
	}
	authors, err := e.authorsByID(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	for i, c := range comments {
		view := models.CommentView{Comment: c}
		if author, ok := authors[c.AuthorID]; ok {
			view.AuthorUsername = author.Username
			view.AuthorProfilePicture = author.ProfilePicture
		}
		views[i] = view
	}
	return views, nil
}

// Author returns the stored profile of author, which may be newer than a
// session snapshot. The snapshot is returned when the user is gone.
func (e *Enricher) Author(ctx context.Context, author models.User) (models.User, error) {
	authors, err := e.authorsByID(ctx, []string{author.ID})
	if err != nil {
		return models.User{}, err
	}
	if current, ok := authors[author.ID]; ok {
		return current, nil
	}
	return author, nil
}

func (e *Enricher) authorsByID(ctx context.Context, ids []string) (map[string]models.User, error) {
	users, err := e.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}
