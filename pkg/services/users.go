package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
	"github.com/lacrosselens/lacrosselens-engine/pkg/models"
	"github.com/lacrosselens/lacrosselens-engine/pkg/repositories"
)

// UserService records the coaches who sign in.
type UserService interface {
	// Ensure creates the user on first sign-in and refreshes email and name.
	Ensure(ctx context.Context, id, email, name string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.Named("users"),
	}
}

var _ UserService = (*userService)(nil)

func (s *userService) Ensure(ctx context.Context, id, email, name string) (*models.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	user := &models.User{ID: id, Email: email, Name: name}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		s.logger.Error("Failed to upsert user", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
