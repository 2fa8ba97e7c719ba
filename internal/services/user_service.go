// internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/models"
	"github.com/javajoker/cardshop/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// ListUsers returns users newest first.
func (s *UserService) ListUsers(ctx context.Context, page utils.PageParams) ([]models.User, utils.PageMeta, error) {
	if page.Limit <= 0 || page.Limit > utils.MaxLimit {
		page.Limit = utils.DefaultLimit
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(page.Limit + 1).
		Offset(page.Offset).
		Find(&users).Error
	if err != nil {
		return nil, utils.PageMeta{}, fmt.Errorf("failed to list users: %w", err)
	}

	meta := utils.PageMeta{Limit: page.Limit, Offset: page.Offset, HasMore: len(users) > page.Limit}
	if meta.HasMore {
		users = users[:page.Limit]
	}
	return users, meta, nil
}
