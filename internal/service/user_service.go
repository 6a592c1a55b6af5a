package service

import (
	"context"
	"strings"

	"agora/internal/media"
	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, profile edits and user listing.
type UserService struct {
	users      repository.UserRepository
	follows    repository.FollowRepository
	bcryptCost int
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,password"`
	Bio      string `json:"bio" validate:"max=500"`
}

// UpdateProfileInput is the payload for editing a profile. A nil
// ProfilePicture leaves the current picture untouched.
type UpdateProfileInput struct {
	Username       string  `json:"username" validate:"required,username"`
	Bio            string  `json:"bio" validate:"max=500"`
	ProfilePicture *string `json:"profilePicture"`
}

// ListUsersInput filters the user listing.
type ListUsersInput struct {
	Search   string
	ViewerID string
}

// NewUserService returns a UserService. A zero bcryptCost uses bcrypt.DefaultCost.
func NewUserService(users repository.UserRepository, follows repository.FollowRepository, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: users, follows: follows, bcryptCost: bcryptCost}
}

// Register creates an account. Uniqueness is enforced by the store.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Bio = strings.TrimSpace(in.Bio)
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, internal(ctx, "hash password", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Bio:      in.Bio,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// UpdateProfile edits the requester's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, requesterID, userID string, in UpdateProfileInput) (*models.User, error) {
	if requesterID != userID {
		return nil, models.NewForbiddenError("You can only edit your own profile")
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Bio = strings.TrimSpace(in.Bio)
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.Bio = in.Bio
	if in.ProfilePicture != nil {
		picture := strings.TrimSpace(*in.ProfilePicture)
		if media.IsDataURI(picture) {
			if _, err := media.DecodeDataURI(picture, ""); err != nil {
				return nil, models.NewValidationError("Profile picture is not a valid image")
			}
		}
		user.ProfilePicture = picture
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// List returns users whose username contains the search term. With a viewer,
// each user is annotated with whether the viewer follows them.
func (s *UserService) List(ctx context.Context, in ListUsersInput) ([]models.UserView, error) {
	users, err := s.users.Search(ctx, strings.TrimSpace(in.Search))
	if err != nil {
		return nil, err
	}

	views := make([]models.UserView, len(users))
	for i, u := range users {
		views[i] = models.UserView{User: u.Sanitized()}
	}
	if in.ViewerID == "" || len(users) == 0 {
		return views, nil
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	following, err := s.follows.FollowingSet(ctx, in.ViewerID, ids)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].Viewer = &models.UserViewer{IsFollowing: following[views[i].ID]}
	}
	return views, nil
}
