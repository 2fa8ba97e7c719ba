// internal/services/cart_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/models"
	"github.com/javajoker/cardshop/internal/utils"
)

type CartService struct {
	db *gorm.DB
}

type AddToCartRequest struct {
	CardID   uuid.UUID `json:"card_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

type Cart struct {
	Items []models.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	var items []models.CartItem
	err := s.db.WithContext(ctx).
		Preload("Card").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &Cart{Items: items, Total: cartTotal(items)}, nil
}

// AddToCart captures the card's current USD price on the new line. Adding
// the same card twice yields two lines, each keeping its own price.
func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, req *AddToCartRequest) (*models.CartItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var card models.Card
	if err := s.db.WithContext(ctx).First(&card, "id = ?", req.CardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	price, ok := unitPrice(&card)
	if !ok {
		return nil, fmt.Errorf("%w: card %s has no price", ErrInvalidInput, card.Name)
	}

	item := &models.CartItem{
		UserID:         userID,
		CardID:         card.ID,
		Quantity:       req.Quantity,
		PriceAtAddTime: price,
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	item.Card = &card
	return item, nil
}

// RemoveFromCart only removes items owned by userID.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// unitPrice prefers the listed USD price, then the cached cheapest quote.
func unitPrice(card *models.Card) (decimal.Decimal, bool) {
	if card.PriceUSD.Valid && card.PriceUSD.Decimal.IsPositive() {
		return card.PriceUSD.Decimal, true
	}
	if card.CheapestPriceUSD.Valid && card.CheapestPriceUSD.Decimal.IsPositive() {
		return card.CheapestPriceUSD.Decimal, true
	}
	return decimal.Zero, false
}

func cartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
