package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// failingStore is a cache.Store whose backend is down.
type failingStore struct {
	mock.Mock
}

func (s *failingStore) Get(ctx context.Context, key, variant string) ([]byte, bool, error) {
	args := s.Called(ctx, key, variant)
	return nil, false, args.Error(0)
}

func (s *failingStore) Set(ctx context.Context, key, variant string, value []byte, ttl time.Duration) error {
	args := s.Called(ctx, key, variant, value, ttl)
	return args.Error(0)
}

func (s *failingStore) InvalidateAll(ctx context.Context) error {
	return s.Called(ctx).Error(0)
}

func (s *failingStore) Ping(ctx context.Context) error {
	return s.Called(ctx).Error(0)
}

func (s *failingStore) Name() string { return "failing" }

type fixture struct {
	db       *gorm.DB
	clock    *testClock
	store    cache.Store
	feed     *FeedService
	follows  *FollowService
	posts    *PostService
	groups   *GroupService
	users    *UserService
	postRepo repository.PostRepository
}

func newFixtureWithStore(t *testing.T, store cache.Store, clock *testClock) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)

	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	userRepo := repository.NewUserRepository(db)

	return &fixture{
		db:       db,
		clock:    clock,
		store:    store,
		feed:     NewFeedService(postRepo, commentRepo, followRepo, store, FeedConfig{PageSize: 10, IndexTTL: 20 * time.Second}),
		follows:  NewFollowService(followRepo, userRepo),
		posts:    NewPostService(postRepo, groupRepo),
		groups:   NewGroupService(groupRepo),
		users:    NewUserService(userRepo),
		postRepo: postRepo,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &testClock{now: testutil.BaseTime}
	store, err := cache.NewMemoryStore(64, clock.Now)
	require.NoError(t, err)
	return newFixtureWithStore(t, store, clock)
}

func postIDs(posts []*models.Post) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code)
}
