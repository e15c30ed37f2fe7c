package repository

import (
	"context"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByPost(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "leo")
	p := testutil.CreatePost(t, db, author, nil, testutil.BaseTime)
	other := testutil.CreatePost(t, db, author, nil, testutil.BaseTime)
	first := testutil.CreateComment(t, db, p, author, "first", testutil.BaseTime)
	second := testutil.CreateComment(t, db, p, author, "second", testutil.BaseTime.Add(time.Minute))
	tie := testutil.CreateComment(t, db, p, author, "tie", testutil.BaseTime.Add(time.Minute))
	testutil.CreateComment(t, db, other, author, "elsewhere", testutil.BaseTime)

	seq := repo.ListByPost(p.ID)
	n, err := seq.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	items, err := seq.Slice(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []uint{tie.ID, second.ID, first.ID}, []uint{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, "leo", items[0].User.Username)

	empty, err := repo.ListByPost(9999).Slice(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCommentRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "leo")
	p := testutil.CreatePost(t, db, author, nil, testutil.BaseTime)

	c := &models.Comment{Text: "hello", PostID: p.ID, UserID: author.ID}
	require.NoError(t, repo.Create(ctx, c))
	assert.NotZero(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "leo", got.User.Username)
}
