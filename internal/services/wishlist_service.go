// internal/services/wishlist_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/models"
)

type WishlistService struct {
	db *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

func (s *WishlistService) List(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := s.db.WithContext(ctx).
		Preload("Card").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	return items, nil
}

// Add is idempotent: a card already on the list returns the existing entry.
func (s *WishlistService) Add(ctx context.Context, userID, cardID uuid.UUID) (*models.WishlistItem, error) {
	var card models.Card
	if err := s.db.WithContext(ctx).Select("id").First(&card, "id = ?", cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	item := models.WishlistItem{UserID: userID, CardID: cardID}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		FirstOrCreate(&item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return &item, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, cardID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}
