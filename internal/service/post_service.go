package service

import (
	"context"
	"log/slog"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
)

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
}

type CreatePostInput struct {
	UserID  uint
	Text    string
	GroupID *uint
	Image   string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Text    string
	GroupID *uint
	Image   string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository) *PostService {
	return &PostService{postRepo: postRepo, groupRepo: groupRepo}
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost publishes a post. The index feed cache is left alone.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text, err := cleanText(in.Text, maxPostLen)
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:    text,
		UserID:  in.UserID,
		GroupID: in.GroupID,
		Image:   strings.TrimSpace(in.Image),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "Post created", slog.Uint64("post_id", uint64(post.ID)))
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost edits text, group and image. Only the author may edit.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	text, err := cleanText(in.Text, maxPostLen)
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = in.GroupID
	post.Image = strings.TrimSpace(in.Image)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post and its comments. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "Post deleted", slog.Uint64("post_id", uint64(post.ID)))
	return nil
}

func (s *PostService) checkGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	_, err := s.groupRepo.GetByID(ctx, *groupID)
	return err
}
