// internal/services/price_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/models"
	"github.com/javajoker/cardshop/internal/pricing"
)

// PriceService reads and appends rows of the price history.
type PriceService struct {
	db *gorm.DB
}

type CheapestPrice struct {
	Observation models.PriceObservation `json:"observation"`
	PriceUSD    decimal.Decimal         `json:"price_usd"`
}

func NewPriceService(db *gorm.DB) *PriceService {
	return &PriceService{db: db}
}

// Record appends one observation. Rows are never updated or deduplicated.
func (s *PriceService) Record(ctx context.Context, obs *models.PriceObservation) error {
	if obs.CardID == uuid.Nil || strings.TrimSpace(obs.Retailer) == "" {
		return fmt.Errorf("%w: card id and retailer are required", ErrInvalidInput)
	}
	if !obs.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if obs.Currency == "" {
		obs.Currency = "USD"
	}
	if obs.ScrapedAt.IsZero() {
		obs.ScrapedAt = time.Now()
	}

	if err := s.db.WithContext(ctx).Create(obs).Error; err != nil {
		return fmt.Errorf("failed to record price observation: %w", err)
	}
	return nil
}

// History returns every observation for a card, newest first.
func (s *PriceService) History(ctx context.Context, cardID uuid.UUID, limit int) ([]models.PriceObservation, error) {
	var obs []models.PriceObservation
	query := s.db.WithContext(ctx).Where("card_id = ?", cardID).Order("scraped_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&obs).Error; err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	return obs, nil
}

// LatestByRetailer returns the most recent observation per retailer,
// ordered by retailer name.
func (s *PriceService) LatestByRetailer(ctx context.Context, cardID uuid.UUID) ([]models.PriceObservation, error) {
	return latestByRetailer(s.db.WithContext(ctx), cardID)
}

func latestByRetailer(db *gorm.DB, cardID uuid.UUID) ([]models.PriceObservation, error) {
	var obs []models.PriceObservation
	err := db.Where("card_id = ?", cardID).
		Order("retailer ASC").
		Order("scraped_at DESC").
		Find(&obs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest prices: %w", err)
	}
	return pricing.LatestByRetailer(obs), nil
}

// Cheapest returns nil when the card has no observations.
func (s *PriceService) Cheapest(ctx context.Context, cardID uuid.UUID) (*CheapestPrice, error) {
	latest, err := s.LatestByRetailer(ctx, cardID)
	if err != nil {
		return nil, err
	}
	best, usd, ok := pricing.Cheapest(latest)
	if !ok {
		return nil, nil
	}
	return &CheapestPrice{Observation: best, PriceUSD: usd}, nil
}

// RefreshCardCache recomputes the card's cached cheapest price from the
// latest observations. A card with no observations gets its cache cleared.
func (s *PriceService) RefreshCardCache(ctx context.Context, cardID uuid.UUID) (*CheapestPrice, error) {
	var result *CheapestPrice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		latest, err := latestByRetailer(tx, cardID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"cheapest_price_usd":  decimal.NullDecimal{},
			"cheapest_retailer":   "",
			"prices_refreshed_at": time.Now(),
		}
		if best, usd, ok := pricing.Cheapest(latest); ok {
			result = &CheapestPrice{Observation: best, PriceUSD: usd}
			updates["cheapest_price_usd"] = decimal.NewNullDecimal(usd.Round(2))
			updates["cheapest_retailer"] = best.Retailer
		}

		res := tx.Model(&models.Card{}).Where("id = ?", cardID).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update cached price: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrCardNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
