package repository

import (
	"context"
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByUsername(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Username: "leo", Email: "leo@example.com"}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByUsername(ctx, "missing")
	assert.True(t, models.IsNotFound(err))

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, models.IsNotFound(err))
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	leo := testutil.CreateUser(t, db, "leo")
	ann := testutil.CreateUser(t, db, "ann")
	leoPost := testutil.CreatePost(t, db, leo, nil, testutil.BaseTime)
	annPost := testutil.CreatePost(t, db, ann, nil, testutil.BaseTime)
	testutil.CreateComment(t, db, leoPost, ann, "on leo's post", testutil.BaseTime)
	testutil.CreateComment(t, db, annPost, leo, "leo on ann's post", testutil.BaseTime)
	keep := testutil.CreateComment(t, db, annPost, ann, "ann on own post", testutil.BaseTime)
	testutil.Follow(t, db, leo, ann)
	testutil.Follow(t, db, ann, leo)

	require.NoError(t, repo.Delete(ctx, leo.ID))

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 1)
	assert.Equal(t, annPost.ID, posts[0].ID)

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, keep.ID, comments[0].ID)

	var follows int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&follows).Error)
	assert.Zero(t, follows)

	assert.True(t, models.IsNotFound(repo.Delete(ctx, leo.ID)))
}
