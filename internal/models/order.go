// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	BaseModel
	UserID                uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	OrderNumber           string          `json:"order_number" gorm:"uniqueIndex;size:50;not null"`
	TotalAmount           decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status                OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	StripePaymentIntentID string          `json:"stripe_payment_intent_id,omitempty" gorm:"size:255"`
	ShippingAddress       JSONB           `json:"shipping_address"`
	ShippingMethod        string          `json:"shipping_method" gorm:"size:50"`
	TrackingNumber        string          `json:"tracking_number,omitempty" gorm:"size:100"`
	Notes                 string          `json:"notes,omitempty" gorm:"type:text"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is a frozen snapshot of a cart line at checkout.
type OrderItem struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	CardID       uuid.UUID       `json:"card_id" gorm:"type:uuid;not null"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	PricePerCard decimal.Decimal `json:"price_per_card" gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time       `json:"created_at"`

	Card *Card `json:"card,omitempty" gorm:"foreignKey:CardID"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
