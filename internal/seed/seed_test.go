package seed

import (
	"context"
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db, 42)
	ctx := context.Background()

	opts := Options{NumUsers: 5, NumGroups: 2, NumPosts: 30, CommentsPerPost: 1, FollowsPerUser: 3, MaxDays: 10}
	res, err := s.Run(ctx, opts)
	require.NoError(t, err)

	assert.Len(t, res.Users, 5)
	assert.True(t, res.Users[0].IsAdmin)
	assert.Len(t, res.Groups, 2)
	assert.Equal(t, 30, res.Posts)
	assert.Equal(t, 30, res.Comments)
	assert.LessOrEqual(t, res.Follows, 5*3)

	var posts int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(30), posts)

	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).Where("user_id = author_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)
}

func TestSeeder_ClearAll(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db, 7)
	ctx := context.Background()

	_, err := s.Run(ctx, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, s.ClearAll(ctx))

	for _, m := range []any{&models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.Follow{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T", m)
	}
}

func TestSeeder_NoUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	res, err := NewSeeder(db, 1).Run(context.Background(), Options{NumGroups: 1, NumPosts: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Users)
	assert.Zero(t, res.Posts)
}
