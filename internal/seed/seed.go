// Package seed populates a store with demo data for development. It writes
// through the services, so counters stay consistent on every backend.
package seed

import (
	"context"
	"fmt"
	"regexp"

	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/repository"
	"agora/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
)

// DefaultPassword is shared by every seeded user.
const DefaultPassword = "password123"

var nonUsername = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Options configure how much data is generated.
type Options struct {
	Users           int
	Posts           int
	FollowsPerUser  int
	LikesPerPost    int
	CommentsPerPost int
}

// Result counts what was created.
type Result struct {
	Users    []models.User
	Contents int
	Follows  int
	Likes    int
	Comments int
}

// Seeder generates users and their activity.
type Seeder struct {
	users    *service.UserService
	contents *service.ContentService
	follows  *service.FollowService
	comments *service.CommentService
	faker    *gofakeit.Faker
	logger   zerolog.Logger
}

// NewSeeder creates a Seeder over store. The same seed yields the same data.
func NewSeeder(store *repository.Store, bcryptCost int, seed int64) *Seeder {
	enricher := service.NewEnricher(store.Users, store.Contents, store.Images)
	return &Seeder{
		users:    service.NewUserService(store.Users, store.Follows, bcryptCost),
		contents: service.NewContentService(store.Contents, store.Images, enricher),
		follows:  service.NewFollowService(store.Users, store.Follows),
		comments: service.NewCommentService(store.Comments, enricher),
		faker:    gofakeit.New(seed),
		logger:   observability.Component("seed"),
	}
}

// Run creates opts.Users users, then follows, posts, likes and comments
// between them.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result

	for i := 0; i < opts.Users; i++ {
		user, err := s.users.Register(ctx, service.RegisterInput{
			Username: s.username(i),
			Email:    fmt.Sprintf("seed%d.%s", i, s.faker.Email()),
			Password: DefaultPassword,
			Bio:      s.faker.Sentence(10),
		})
		if err != nil {
			return res, fmt.Errorf("seed user %d: %w", i, err)
		}
		res.Users = append(res.Users, *user)
	}
	s.logger.Info().Int("users", len(res.Users)).Msg("users created")

	if len(res.Users) < 2 {
		return res, nil
	}

	for i, follower := range res.Users {
		for j := 1; j <= opts.FollowsPerUser && j < len(res.Users); j++ {
			target := res.Users[(i+j)%len(res.Users)]
			if _, err := s.follows.Follow(ctx, follower.ID, target.ID); err != nil {
				return res, fmt.Errorf("seed follow: %w", err)
			}
			res.Follows++
		}
	}

	for i := 0; i < opts.Posts; i++ {
		author := res.Users[s.faker.Number(0, len(res.Users)-1)]
		in := service.CreateContentInput{Text: s.faker.Paragraph(1, 3, 12, " ")}
		if s.faker.Bool() {
			in.ImageData = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", s.faker.UUID())
		}

		content, err := s.contents.Create(ctx, author, in)
		if err != nil {
			return res, fmt.Errorf("seed content: %w", err)
		}
		res.Contents++

		// Distinct users in rotation, so no like is toggled twice.
		start := s.faker.Number(0, len(res.Users)-1)
		for k := 0; k < opts.LikesPerPost && k < len(res.Users); k++ {
			liker := res.Users[(start+k)%len(res.Users)]
			if _, err := s.contents.ToggleLike(ctx, content.ID, liker.ID); err != nil {
				return res, fmt.Errorf("seed like: %w", err)
			}
			res.Likes++
		}

		for k := 0; k < opts.CommentsPerPost; k++ {
			commenter := res.Users[s.faker.Number(0, len(res.Users)-1)]
			if _, err := s.comments.Add(ctx, commenter, service.AddCommentInput{
				ContentID: content.ID,
				Text:      s.faker.Sentence(8),
			}); err != nil {
				return res, fmt.Errorf("seed comment: %w", err)
			}
			res.Comments++
		}
	}

	s.logger.Info().
		Int("follows", res.Follows).
		Int("contents", res.Contents).
		Int("likes", res.Likes).
		Int("comments", res.Comments).
		Msg("activity created")
	return res, nil
}

// username derives a valid, unique username for the i-th user.
func (s *Seeder) username(i int) string {
	base := nonUsername.ReplaceAllString(s.faker.Username(), "")
	if len(base) > 20 {
		base = base[:20]
	}
	if len(base) < 3 {
		base = "user"
	}
	return fmt.Sprintf("%s_%d", base, i)
}
