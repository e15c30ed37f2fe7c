package service

import (
	"context"
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countFollows(t *testing.T, f *fixture) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Follow{}).Count(&n).Error)
	return n
}

func TestFollowService_SelfFollowIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, f.db, "leo")

	require.NoError(t, f.follows.Follow(ctx, u.ID, "leo"))
	assert.Zero(t, countFollows(t, f))

	following, err := f.follows.IsFollowing(ctx, u.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowService_FollowTwiceKeepsOneEdge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "a")
	b := testutil.CreateUser(t, f.db, "b")

	require.NoError(t, f.follows.Follow(ctx, a.ID, "b"))
	require.NoError(t, f.follows.Follow(ctx, a.ID, "b"))
	assert.Equal(t, int64(1), countFollows(t, f))

	following, err := f.follows.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestFollowService_Unfollow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "a")
	testutil.CreateUser(t, f.db, "b")

	assertCode(t, f.follows.Unfollow(ctx, a.ID, "b"), models.CodeNotFound)

	require.NoError(t, f.follows.Follow(ctx, a.ID, "b"))
	require.NoError(t, f.follows.Unfollow(ctx, a.ID, "b"))
	assert.Zero(t, countFollows(t, f))

	assertCode(t, f.follows.Unfollow(ctx, a.ID, "b"), models.CodeNotFound)
}

func TestFollowService_UnknownAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "a")

	assertCode(t, f.follows.Follow(ctx, a.ID, "ghost"), models.CodeNotFound)
	assertCode(t, f.follows.Unfollow(ctx, a.ID, "ghost"), models.CodeNotFound)

	following, err := f.follows.IsFollowing(ctx, 0, a.ID)
	require.NoError(t, err)
	assert.False(t, following)
}
