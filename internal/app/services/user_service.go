package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
)

// UserService exposes user lookups to administrators
type UserService interface {
	ListUsers(ctx context.Context, role *models.RoleType) ([]*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userServiceImpl struct {
	userRepo UserStore
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserStore) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) ListUsers(ctx context.Context, role *models.RoleType) ([]*models.User, error) {
	return s.userRepo.List(ctx, role)
}

func (s *userServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
