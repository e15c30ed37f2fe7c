package service

import (
	"context"
	"strings"
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "leo")
	g := testutil.CreateGroup(t, f.db, "g")

	post, err := f.posts.CreatePost(ctx, CreatePostInput{UserID: author.ID, Text: "<b>hello</b>", GroupID: &g.ID, Image: " posts/a.png "})
	require.NoError(t, err)
	assert.Equal(t, "<b>hello</b>", post.Text)
	assert.Equal(t, "posts/a.png", post.Image)
	assert.Equal(t, "leo", post.User.Username)
	require.NotNil(t, post.Group)
	assert.Equal(t, "g", post.Group.Slug)

	t.Run("missing group", func(t *testing.T) {
		missing := uint(404)
		_, err := f.posts.CreatePost(ctx, CreatePostInput{UserID: author.ID, Text: "x", GroupID: &missing})
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := f.posts.CreatePost(ctx, CreatePostInput{UserID: author.ID, Text: "  "})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("text too long", func(t *testing.T) {
		_, err := f.posts.CreatePost(ctx, CreatePostInput{UserID: author.ID, Text: strings.Repeat("x", maxPostLen+1)})
		assertCode(t, err, models.CodeValidation)
	})
}

func TestPostService_UpdatePost_Forbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "leo")
	other := testutil.CreateUser(t, f.db, "ann")
	p := testutil.CreatePost(t, f.db, author, nil, testutil.BaseTime)

	_, err := f.posts.UpdatePost(ctx, UpdatePostInput{UserID: other.ID, PostID: p.ID, Text: "hijacked"})
	assertCode(t, err, models.CodeForbidden)

	unchanged, err := f.posts.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Text, unchanged.Text)

	assertCode(t, f.posts.DeletePost(ctx, DeletePostInput{UserID: other.ID, PostID: p.ID}), models.CodeForbidden)
}

func TestPostService_UpdatePost_ByAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "leo")
	g := testutil.CreateGroup(t, f.db, "g")
	p := testutil.CreatePost(t, f.db, author, g, testutil.BaseTime)

	updated, err := f.posts.UpdatePost(ctx, UpdatePostInput{UserID: author.ID, PostID: p.ID, Text: "rewritten"})
	require.NoError(t, err)
	assert.Equal(t, "rewritten", updated.Text)
	assert.Nil(t, updated.GroupID)
	assert.True(t, updated.CreatedAt.Equal(testutil.BaseTime))

	_, err = f.posts.UpdatePost(ctx, UpdatePostInput{UserID: author.ID, PostID: 9999, Text: "x"})
	assertCode(t, err, models.CodeNotFound)
}
