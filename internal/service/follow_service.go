package service

import (
	"context"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/repository"
)

// FollowService manages who follows whom.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow makes userID follow username. Following yourself, or someone you
// already follow, does nothing.
func (s *FollowService) Follow(ctx context.Context, userID uint, username string) error {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if author.ID == userID {
		return nil
	}
	if err := s.followRepo.Create(ctx, userID, author.ID); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "Author followed",
		slog.Uint64("author_id", uint64(author.ID)),
	)
	return nil
}

// Unfollow removes the edge userID -> username. It fails with NOT_FOUND when
// userID does not follow username.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, username string) error {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.followRepo.Delete(ctx, userID, author.ID); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "Author unfollowed",
		slog.Uint64("author_id", uint64(author.ID)),
	)
	return nil
}

// IsFollowing reports whether viewerID follows authorID.
func (s *FollowService) IsFollowing(ctx context.Context, viewerID, authorID uint) (bool, error) {
	if viewerID == 0 || viewerID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, viewerID, authorID)
}
