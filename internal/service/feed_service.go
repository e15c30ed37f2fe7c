// Package service composes repositories into the feed, follow and publishing operations.
package service

import (
	"context"
	"log/slog"
	"time"

	"yatube/internal/cache"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PostPage is one page of a post feed.
type PostPage = pagination.Page[*models.Post]

// GroupFeed is a group together with one page of its posts.
type GroupFeed struct {
	Group *models.Group `json:"group"`
	Page  *PostPage     `json:"page"`
}

// ProfileFeed is an author's page as seen by a viewer.
type ProfileFeed struct {
	Author    *models.User `json:"author"`
	Following bool         `json:"following"`
	PostCount int64        `json:"post_count"`
	Page      *PostPage    `json:"page"`
}

// PostDetail is a post with all of its comments, newest first.
type PostDetail struct {
	Post     *models.Post      `json:"post"`
	Comments []*models.Comment `json:"comments"`
}

// FeedConfig tunes page size and index caching.
type FeedConfig struct {
	PageSize int
	IndexTTL time.Duration
}

// FeedService serves paginated feeds. Only the index feed is cached; every
// other feed reads the store directly.
type FeedService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository
	store       cache.Store
	pageSize    int
	indexTTL    time.Duration
}

// NewFeedService creates a feed service. store may be nil, which disables caching.
func NewFeedService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	followRepo repository.FollowRepository,
	store cache.Store,
	cfg FeedConfig,
) *FeedService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = pagination.DefaultPageSize
	}
	if cfg.IndexTTL <= 0 {
		cfg.IndexTTL = cache.IndexFeedTTL
	}
	return &FeedService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
		store:       store,
		pageSize:    cfg.PageSize,
		indexTTL:    cfg.IndexTTL,
	}
}

// GetIndexPage returns a page of every post. Results may be up to the index
// TTL stale: creating or deleting posts does not invalidate the cache. Cache
// failures fall back to a direct query.
func (s *FeedService) GetIndexPage(ctx context.Context, number int) (page *PostPage, err error) {
	defer observability.TrackFeedQuery("index")()
	ctx, span := observability.StartSpan(ctx, "feed.index", attribute.Int("page", number))
	defer func() { observability.EndSpan(span, err) }()

	variant := cache.PageVariant(number)
	if s.store != nil {
		var cached PostPage
		found, cerr := cache.GetJSON(ctx, s.store, cache.IndexFeedKey, variant, &cached)
		switch {
		case cerr != nil:
			observability.RecordCacheLookup(observability.CacheError)
			middleware.Logger.WarnContext(ctx, "Feed cache read failed, querying directly",
				slog.String("backend", s.store.Name()),
				slog.String("error", cerr.Error()),
			)
		case found:
			observability.RecordCacheLookup(observability.CacheHit)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &cached, nil
		default:
			observability.RecordCacheLookup(observability.CacheMiss)
		}
	}

	page, err = pagination.Paginate(ctx, s.postRepo.ListAll(), s.pageSize, number)
	if err != nil {
		return nil, err
	}

	// Out-of-range requests are stored under the page they resolved to, so the
	// variants of the key never outnumber the real pages.
	if s.store != nil {
		if werr := cache.SetJSON(ctx, s.store, cache.IndexFeedKey, cache.PageVariant(page.Number), page, s.indexTTL); werr != nil {
			observability.FeedCacheWriteErrors.Inc()
			middleware.Logger.WarnContext(ctx, "Feed cache write failed",
				slog.String("backend", s.store.Name()),
				slog.String("error", werr.Error()),
			)
		}
	}
	return page, nil
}

// GetGroupPage returns a page of the group identified by slug.
func (s *FeedService) GetGroupPage(ctx context.Context, slug string, number int) (feed *GroupFeed, err error) {
	defer observability.TrackFeedQuery("group")()
	ctx, span := observability.StartSpan(ctx, "feed.group",
		attribute.String("group.slug", slug),
		attribute.Int("page", number),
	)
	defer func() { observability.EndSpan(span, err) }()

	group, seq, err := s.postRepo.ListByGroup(ctx, slug)
	if err != nil {
		return nil, err
	}
	page, err := pagination.Paginate(ctx, seq, s.pageSize, number)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: page}, nil
}

// GetProfilePage returns a page of username's posts. viewerID 0 means an
// anonymous viewer, who never follows anyone.
func (s *FeedService) GetProfilePage(ctx context.Context, username string, viewerID uint, number int) (feed *ProfileFeed, err error) {
	defer observability.TrackFeedQuery("profile")()
	ctx, span := observability.StartSpan(ctx, "feed.profile",
		attribute.String("author.username", username),
		attribute.Int("page", number),
	)
	defer func() { observability.EndSpan(span, err) }()

	author, seq, err := s.postRepo.ListByAuthor(ctx, username)
	if err != nil {
		return nil, err
	}
	page, err := pagination.Paginate(ctx, seq, s.pageSize, number)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != 0 && viewerID != author.ID {
		if following, err = s.followRepo.Exists(ctx, viewerID, author.ID); err != nil {
			return nil, err
		}
	}

	return &ProfileFeed{
		Author:    author,
		Following: following,
		PostCount: page.TotalItems,
		Page:      page,
	}, nil
}

// GetFollowedFeedPage returns a page of posts by authors userID follows.
func (s *FeedService) GetFollowedFeedPage(ctx context.Context, userID uint, number int) (page *PostPage, err error) {
	defer observability.TrackFeedQuery("follow")()
	ctx, span := observability.StartSpan(ctx, "feed.follow", attribute.Int("page", number))
	defer func() { observability.EndSpan(span, err) }()

	return pagination.Paginate(ctx, s.postRepo.ListFollowedFeed(userID), s.pageSize, number)
}

// GetPostDetail returns a post and all of its comments.
func (s *FeedService) GetPostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	seq := s.commentRepo.ListByPost(postID)
	n, err := seq.Count(ctx)
	if err != nil {
		return nil, err
	}
	comments := []*models.Comment{}
	if n > 0 {
		if comments, err = seq.Slice(ctx, 0, int(n)); err != nil {
			return nil, err
		}
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

// AddComment attaches a sanitized comment by authorID to postID.
func (s *FeedService) AddComment(ctx context.Context, postID, authorID uint, text string) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	text, err := cleanText(text, maxCommentLen)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{Text: text, PostID: postID, UserID: authorID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "Comment added",
		slog.Uint64("post_id", uint64(postID)),
		slog.Uint64("comment_id", uint64(comment.ID)),
	)
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// InvalidateIndexCache purges the feed cache.
func (s *FeedService) InvalidateIndexCache(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.InvalidateAll(ctx); err != nil {
		return models.NewInternalError(err)
	}
	middleware.Logger.InfoContext(ctx, "Feed cache purged", slog.String("backend", s.store.Name()))
	return nil
}
