package service

import (
	"context"
	"log/slog"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type CreateUserInput struct {
	Username string
	Email    string
	IsAdmin  bool
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, models.NewValidationError("Username is required")
	}
	if len(username) > 150 {
		return nil, models.NewValidationError("Username too long (max 150 characters)")
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, models.NewValidationError("Username is already taken")
	} else if !models.IsNotFound(err) {
		return nil, err
	}

	user := &models.User{Username: username, Email: strings.TrimSpace(in.Email), IsAdmin: in.IsAdmin}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "User created", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// DeleteUser removes a user along with their posts, comments and follow edges.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "User deleted", slog.Uint64("user_id", uint64(id)))
	return nil
}
