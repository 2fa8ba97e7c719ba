// internal/models/card.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card is a catalog entry keyed by the upstream provider's identifier.
type Card struct {
	BaseModel
	ExternalID       string              `json:"external_id" gorm:"uniqueIndex;size:64;not null"`
	Game             string              `json:"game" gorm:"size:32;not null;default:'mtg'"`
	Name             string              `json:"name" gorm:"size:255;not null;index"`
	ManaCost         string              `json:"mana_cost" gorm:"size:100"`
	CMC              float64             `json:"cmc"`
	TypeLine         string              `json:"type_line" gorm:"type:text"`
	OracleText       string              `json:"oracle_text" gorm:"type:text"`
	Power            *string             `json:"power" gorm:"size:10"`
	Toughness        *string             `json:"toughness" gorm:"size:10"`
	Colors           string              `json:"colors" gorm:"size:50"`
	ColorIdentity    string              `json:"color_identity" gorm:"size:50"`
	Rarity           string              `json:"rarity" gorm:"size:20;index"`
	SetCode          string              `json:"set_code" gorm:"size:10;index"`
	SetName          string              `json:"set_name" gorm:"size:255"`
	CollectorNumber  string              `json:"collector_number" gorm:"size:20"`
	ReleaseDate      string              `json:"release_date" gorm:"size:20"`
	ImageURL         string              `json:"image_url" gorm:"type:text"`
	PriceUSD         decimal.NullDecimal `json:"price_usd" gorm:"type:decimal(12,2)"`
	PriceEUR         decimal.NullDecimal `json:"price_eur" gorm:"type:decimal(12,2)"`
	PriceFoil        decimal.NullDecimal `json:"price_foil" gorm:"type:decimal(12,2)"`
	CostBenefitScore decimal.NullDecimal `json:"cost_benefit_score" gorm:"type:decimal(12,2);index"`
	EDHRECRank       *int                `json:"edhrec_rank"`
	Keywords         StringArray         `json:"keywords"`
	Legalities       JSONB               `json:"legalities"`

	// Cached from the latest price observations; recomputed after each refresh.
	CheapestPriceUSD  decimal.NullDecimal `json:"cheapest_price_usd" gorm:"type:decimal(12,2)"`
	CheapestRetailer  string              `json:"cheapest_retailer" gorm:"size:50"`
	PricesRefreshedAt *time.Time          `json:"prices_refreshed_at"`
}
