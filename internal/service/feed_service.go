package service

import (
	"context"

	"agora/internal/models"
	"agora/internal/repository"
)

// FeedService assembles a viewer's home feed.
type FeedService struct {
	follows  repository.FollowRepository
	contents repository.ContentRepository
	enricher *Enricher
}

// NewFeedService returns a FeedService.
func NewFeedService(follows repository.FollowRepository, contents repository.ContentRepository, enricher *Enricher) *FeedService {
	return &FeedService{follows: follows, contents: contents, enricher: enricher}
}

// Feed returns the contents of everyone viewerID follows, newest first.
func (s *FeedService) Feed(ctx context.Context, viewerID string) ([]models.ContentView, error) {
	following, err := s.follows.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	authors := make([]string, 0, len(following))
	for _, id := range following {
		if id != viewerID {
			authors = append(authors, id)
		}
	}
	if len(authors) == 0 {
		return []models.ContentView{}, nil
	}

	contents, err := s.contents.ListByAuthors(ctx, authors)
	if err != nil {
		return nil, err
	}
	return s.enricher.Contents(ctx, contents, viewerID)
}
