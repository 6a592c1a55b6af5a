package service

import (
	"context"
	"strings"

	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/repository"
)

// FollowService manages follow edges between users.
type FollowService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
}

// NewFollowService returns a FollowService.
func NewFollowService(users repository.UserRepository, follows repository.FollowRepository) *FollowService {
	return &FollowService{users: users, follows: follows}
}

// Follow makes followerID follow followingID.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	followingID = strings.TrimSpace(followingID)
	if followingID == "" {
		return nil, models.NewValidationError("User ID to follow is required")
	}
	if followingID == followerID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.users.GetByID(ctx, followingID); err != nil {
		return nil, err
	}

	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := s.follows.Create(ctx, follow); err != nil {
		return nil, err
	}
	observability.RecordSocialEvent("follow", "follow")
	return follow, nil
}

// Unfollow removes the edge from followerID to followingID.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	followingID = strings.TrimSpace(followingID)
	if followingID == "" {
		return models.NewValidationError("User ID to unfollow is required")
	}
	if err := s.follows.Delete(ctx, followerID, followingID); err != nil {
		return err
	}
	observability.RecordSocialEvent("follow", "unfollow")
	return nil
}
