// internal/models/cart.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem keeps the unit price seen when the card was added; it is never revised.
type CartItem struct {
	BaseModel
	UserID         uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	CardID         uuid.UUID       `json:"card_id" gorm:"type:uuid;not null"`
	Quantity       int             `json:"quantity" gorm:"not null"`
	PriceAtAddTime decimal.Decimal `json:"price_at_add_time" gorm:"type:decimal(12,2);not null"`

	Card *Card `json:"card,omitempty" gorm:"foreignKey:CardID"`
}

func (c CartItem) LineTotal() decimal.Decimal {
	return c.PriceAtAddTime.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

type WishlistItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_card"`
	CardID    uuid.UUID `json:"card_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_card"`
	CreatedAt time.Time `json:"created_at"`

	Card *Card `json:"card,omitempty" gorm:"foreignKey:CardID"`
}

func (WishlistItem) TableName() string {
	return "wishlist"
}

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
