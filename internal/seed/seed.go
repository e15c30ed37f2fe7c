// Package seed populates a database with demo users, groups, posts, comments
// and follows. It is meant for development and tests only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures the size of the generated data set.
type Options struct {
	NumUsers        int
	NumGroups       int
	NumPosts        int
	CommentsPerPost int
	FollowsPerUser  int
	// RandSeed makes runs reproducible; 0 picks a time-based seed.
	RandSeed int64
	// MaxDays spreads post timestamps over this many days before now.
	MaxDays int
}

// DefaultOptions is a small but browsable data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:        20,
		NumGroups:       5,
		NumPosts:        150,
		CommentsPerPost: 2,
		FollowsPerUser:  4,
		MaxDays:         60,
	}
}

// Result lists what a run created.
type Result struct {
	Users    []*models.User
	Groups   []*models.Group
	Posts    int
	Comments int
	Follows  int
}

// Seeder writes generated entities through GORM.
type Seeder struct {
	db      *gorm.DB
	faker   *gofakeit.Faker
	follows repository.FollowRepository
	now     func() time.Time
}

// NewSeeder creates a seeder bound to db.
func NewSeeder(db *gorm.DB, randSeed int64) *Seeder {
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	return &Seeder{
		db:      db,
		faker:   gofakeit.New(randSeed),
		follows: repository.NewFollowRepository(db),
		now:     time.Now,
	}
}

// ClearAll removes every row the seeder can create, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, m := range []any{&models.Follow{}, &models.Comment{}, &models.Post{}, &models.Group{}, &models.User{}} {
		if err := tx.Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	middleware.Logger.InfoContext(ctx, "Database cleared")
	return nil
}

// Run generates a data set per opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}
	db := s.db.WithContext(ctx)

	for i := 0; i < opts.NumUsers; i++ {
		u := &models.User{
			Username: fmt.Sprintf("%s%d", strings.ToLower(s.faker.Username()), i+1),
			Email:    s.faker.Email(),
			IsAdmin:  i == 0,
		}
		if err := db.Create(u).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		res.Users = append(res.Users, u)
	}

	for i := 0; i < opts.NumGroups; i++ {
		word := strings.ToLower(s.faker.Word())
		g := &models.Group{
			Title:       strings.ToUpper(word[:1]) + word[1:],
			Description: s.faker.Sentence(12),
			Slug:        fmt.Sprintf("%s-%d", word, i+1),
		}
		if err := db.Create(g).Error; err != nil {
			return nil, fmt.Errorf("create group: %w", err)
		}
		res.Groups = append(res.Groups, g)
	}

	if len(res.Users) == 0 {
		return res, nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		posts = append(posts, s.buildPost(res.Users, res.Groups, opts.MaxDays))
	}
	if len(posts) > 0 {
		if err := db.Omit("User", "Group").CreateInBatches(posts, 100).Error; err != nil {
			return nil, fmt.Errorf("create posts: %w", err)
		}
	}
	res.Posts = len(posts)

	comments := make([]*models.Comment, 0, len(posts)*opts.CommentsPerPost)
	for _, p := range posts {
		for j := 0; j < opts.CommentsPerPost; j++ {
			author := res.Users[s.faker.Number(0, len(res.Users)-1)]
			comments = append(comments, &models.Comment{
				Text:      s.faker.Sentence(s.faker.Number(4, 14)),
				PostID:    p.ID,
				UserID:    author.ID,
				CreatedAt: p.CreatedAt.Add(time.Duration(s.faker.Number(1, 600)) * time.Minute),
			})
		}
	}
	if len(comments) > 0 {
		if err := db.Omit("User", "Post").CreateInBatches(comments, 200).Error; err != nil {
			return nil, fmt.Errorf("create comments: %w", err)
		}
	}
	res.Comments = len(comments)

	for _, u := range res.Users {
		for j := 0; j < opts.FollowsPerUser; j++ {
			author := res.Users[s.faker.Number(0, len(res.Users)-1)]
			if author.ID == u.ID {
				continue
			}
			if err := s.follows.Create(ctx, u.ID, author.ID); err != nil {
				return nil, fmt.Errorf("create follow: %w", err)
			}
		}
	}
	var follows int64
	if err := db.Model(&models.Follow{}).Count(&follows).Error; err != nil {
		return nil, err
	}
	res.Follows = int(follows)

	middleware.Logger.InfoContext(ctx, "Seeding complete",
		slog.Int("users", len(res.Users)),
		slog.Int("groups", len(res.Groups)),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
		slog.Int("follows", res.Follows),
	)
	return res, nil
}

func (s *Seeder) buildPost(users []*models.User, groups []*models.Group, maxDays int) *models.Post {
	if maxDays <= 0 {
		maxDays = 60
	}
	author := users[s.faker.Number(0, len(users)-1)]
	post := &models.Post{
		Text:   s.faker.Paragraph(1, s.faker.Number(1, 4), 12, " "),
		UserID: author.ID,
		CreatedAt: s.now().Add(-time.Duration(s.faker.Number(0, maxDays*24*60)) * time.Minute).
			Truncate(time.Second),
	}
	// roughly two in three posts belong to a group
	if len(groups) > 0 && s.faker.Number(0, 2) > 0 {
		g := groups[s.faker.Number(0, len(groups)-1)]
		post.GroupID = &g.ID
	}
	if s.faker.Number(0, 4) == 0 {
		post.Image = fmt.Sprintf("posts/%s.jpg", s.faker.UUID())
	}
	return post
}
