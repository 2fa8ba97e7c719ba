// internal/models/price_history.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceObservation is one append-only retailer quote for a card.
type PriceObservation struct {
	BaseModel
	CardID    uuid.UUID       `json:"card_id" gorm:"type:uuid;not null;index"`
	Retailer  string          `json:"retailer" gorm:"size:50;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Currency  string          `json:"currency" gorm:"size:10;not null;default:'USD'"`
	URL       string          `json:"url" gorm:"type:text"`
	Condition string          `json:"condition" gorm:"size:50"`
	InStock   bool            `json:"in_stock"`
	ScrapedAt time.Time       `json:"scraped_at" gorm:"not null;index"`
}

func (PriceObservation) TableName() string {
	return "price_history"
}

func (p PriceObservation) RetailerKey() string {
	return p.Retailer
}

func (p PriceObservation) PriceAmount() decimal.Decimal {
	return p.Price
}

func (p PriceObservation) PriceCurrency() string {
	return p.Currency
}
