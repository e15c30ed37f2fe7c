// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated, private in-memory SQLite database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// BaseTime is the timestamp fixtures count from.
var BaseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// CreateUser inserts a user with the given username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateAdmin inserts an admin user.
func CreateAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", IsAdmin: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateGroup inserts a group with the given slug.
func CreateGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Description: "About " + slug, Slug: slug}
	require.NoError(t, db.Create(g).Error)
	return g
}

// CreatePost inserts a post by author, optionally in group, created at.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Text: fmt.Sprintf("post by %s at %s", author.Username, at.Format(time.RFC3339)), UserID: author.ID, CreatedAt: at}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, db.Omit("User", "Group").Create(p).Error)
	return p
}

// CreatePosts inserts n posts one minute apart, oldest first.
func CreatePosts(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, n int) []*models.Post {
	t.Helper()
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, CreatePost(t, db, author, group, BaseTime.Add(time.Duration(i)*time.Minute)))
	}
	return posts
}

// CreateComment inserts a comment on post by author.
func CreateComment(t *testing.T, db *gorm.DB, post *models.Post, author *models.User, text string, at time.Time) *models.Comment {
	t.Helper()
	c := &models.Comment{Text: text, PostID: post.ID, UserID: author.ID, CreatedAt: at}
	require.NoError(t, db.Omit("User", "Post").Create(c).Error)
	return c
}

// Follow inserts a follow edge.
func Follow(t *testing.T, db *gorm.DB, user, author *models.User) {
	t.Helper()
	require.NoError(t, db.Omit("User", "Author").Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error)
}
