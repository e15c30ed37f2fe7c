// Command seed fills the configured database with demo data and prints
// bearer tokens for a few of the generated users.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numGroups := flag.Int("groups", defaults.NumGroups, "Number of groups to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	comments := flag.Int("comments", defaults.CommentsPerPost, "Comments per post")
	follows := flag.Int("follows", defaults.FollowsPerUser, "Follow attempts per user")
	randSeed := flag.Int64("seed", 0, "Random seed (0 = time based)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	tokens := flag.Int("tokens", 3, "Print bearer tokens for this many users")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, *randSeed)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(ctx, seed.Options{
		NumUsers:        *numUsers,
		NumGroups:       *numGroups,
		NumPosts:        *numPosts,
		CommentsPerPost: *comments,
		FollowsPerUser:  *follows,
		MaxDays:         defaults.MaxDays,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	for i, u := range res.Users {
		if i >= *tokens {
			break
		}
		token, err := middleware.IssueToken(cfg.JWTSecret, u.ID, 24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Printf("%-24s %-5s Bearer %s\n", u.Username, role, token)
	}
}
