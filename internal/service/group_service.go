package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type GroupService struct {
	groupRepo repository.GroupRepository
}

type CreateGroupInput struct {
	Title       string
	Description string
	Slug        string
}

func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > 200 {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if !slugPattern.MatchString(in.Slug) {
		return nil, models.NewValidationError("Slug may contain only letters, digits, hyphens and underscores")
	}

	if _, err := s.groupRepo.GetBySlug(ctx, in.Slug); err == nil {
		return nil, models.NewValidationError("Slug is already taken")
	} else if !models.IsNotFound(err) {
		return nil, err
	}

	group := &models.Group{Title: title, Description: strings.TrimSpace(in.Description), Slug: in.Slug}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "Group created", slog.String("slug", group.Slug))
	return group, nil
}

func (s *GroupService) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return s.groupRepo.GetBySlug(ctx, slug)
}

func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.List(ctx)
}

// DeleteGroup removes a group. Its posts remain, ungrouped.
func (s *GroupService) DeleteGroup(ctx context.Context, id uint) error {
	if err := s.groupRepo.Delete(ctx, id); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "Group deleted", slog.Uint64("group_id", uint64(id)))
	return nil
}
