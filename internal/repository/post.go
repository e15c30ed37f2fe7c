package repository

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostSequence is a lazily evaluated, newest-first listing of posts.
type PostSequence = pagination.Sequence[*models.Post]

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ListAll() PostSequence
	ListByGroup(ctx context.Context, slug string) (*models.Group, PostSequence, error)
	ListByAuthor(ctx context.Context, username string) (*models.User, PostSequence, error)
	ListFollowedFeed(userID uint) PostSequence
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		First(&post, id).Error; err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return &post, nil
}

// Update writes the mutable fields of post: text, group and image.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

// Delete removes a post together with its comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
}

func (r *postRepository) posts(filter func(*gorm.DB) *gorm.DB) PostSequence {
	return newQuerySequence[models.Post](r.db, filter, "User", "Group")
}

// ListAll lists every post.
func (r *postRepository) ListAll() PostSequence {
	return r.posts(nil)
}

// ListByGroup resolves slug and lists the group's posts.
func (r *postRepository) ListByGroup(ctx context.Context, slug string) (*models.Group, PostSequence, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, nil, notFoundOr(err, "Group", slug)
	}
	groupID := group.ID
	return &group, r.posts(func(q *gorm.DB) *gorm.DB {
		return q.Where("group_id = ?", groupID)
	}), nil
}

// ListByAuthor resolves username and lists the author's posts.
func (r *postRepository) ListByAuthor(ctx context.Context, username string) (*models.User, PostSequence, error) {
	var author models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&author).Error; err != nil {
		return nil, nil, notFoundOr(err, "User", username)
	}
	authorID := author.ID
	return &author, r.posts(func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", authorID)
	}), nil
}

// ListFollowedFeed lists posts by every author userID follows. A user who
// follows nobody gets an empty sequence.
func (r *postRepository) ListFollowedFeed(userID uint) PostSequence {
	return r.posts(func(q *gorm.DB) *gorm.DB {
		followed := r.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", userID)
		return q.Where("user_id IN (?)", followed)
	})
}
