// Command seed populates the configured store with demo users and activity.
package main

import (
	"context"
	"flag"
	"time"

	"agora/internal/bootstrap"
	"agora/internal/config"
	"agora/internal/observability"
	"agora/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	follows := flag.Int("follows", 5, "Users each seeded user follows")
	likes := flag.Int("likes", 3, "Likes per post")
	comments := flag.Int("comments", 2, "Comments per post")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		observability.L().Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger(observability.LogConfig{Level: cfg.LogLevel, Pretty: true, ServiceName: "agora-seed"})
	logger := observability.L()

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() { _ = store.Close(ctx) }()

	res, err := seed.NewSeeder(store, cfg.BcryptCost, *seedValue).Run(ctx, seed.Options{
		Users:           *numUsers,
		Posts:           *numPosts,
		FollowsPerUser:  *follows,
		LikesPerPost:    *likes,
		CommentsPerPost: *comments,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}

	logger.Info().
		Int("users", len(res.Users)).
		Int("contents", res.Contents).
		Str("password", seed.DefaultPassword).
		Msg("seeding complete")
}
