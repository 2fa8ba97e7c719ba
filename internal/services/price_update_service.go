// internal/services/price_update_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/cardshop/internal/models"
	"github.com/javajoker/cardshop/internal/scraper"
)

// PriceGatherer collects current retailer quotes for a card.
type PriceGatherer interface {
	GetAllPrices(ctx context.Context, cardName, setName string) (*scraper.Result, error)
}

type PriceUpdateService struct {
	cards     *CardService
	prices    *PriceService
	gatherer  PriceGatherer
	cardDelay time.Duration
}

type PriceUpdateReport struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	NoPrices  int `json:"no_prices"`
	Errors    int `json:"errors"`
}

type RefreshResult struct {
	CardID   uuid.UUID                 `json:"card_id"`
	Recorded []models.PriceObservation `json:"recorded"`
	Cheapest *CheapestPrice            `json:"cheapest"`
}

func NewPriceUpdateService(cards *CardService, prices *PriceService, gatherer PriceGatherer, cardDelay time.Duration) *PriceUpdateService {
	return &PriceUpdateService{
		cards:     cards,
		prices:    prices,
		gatherer:  gatherer,
		cardDelay: cardDelay,
	}
}

// RefreshCard scrapes every retailer for one card, records what was found
// and recomputes the card's cached cheapest price. Recorded is empty when no
// retailer had the card.
func (s *PriceUpdateService) RefreshCard(ctx context.Context, cardID uuid.UUID) (*RefreshResult, error) {
	card, err := s.cards.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	result, err := s.gatherer.GetAllPrices(ctx, card.Name, card.SetName)
	if err != nil {
		return nil, fmt.Errorf("failed to gather prices for %s: %w", card.Name, err)
	}

	out := &RefreshResult{CardID: card.ID, Recorded: []models.PriceObservation{}}
	if result == nil {
		return out, nil
	}

	now := time.Now()
	for _, p := range result.Prices {
		obs := models.PriceObservation{
			CardID:    card.ID,
			Retailer:  p.Retailer,
			Price:     p.Price,
			Currency:  p.Currency,
			URL:       p.URL,
			Condition: p.Condition,
			InStock:   true,
			ScrapedAt: now,
		}
		if obs.Condition == "" {
			obs.Condition = scraper.ConditionNearMint
		}
		if err := s.prices.Record(ctx, &obs); err != nil {
			return nil, err
		}
		out.Recorded = append(out.Recorded, obs)
	}

	cheapest, err := s.prices.RefreshCardCache(ctx, card.ID)
	if err != nil {
		return nil, err
	}
	out.Cheapest = cheapest
	return out, nil
}

// UpdateTopCards refreshes the n best cost-benefit cards, waiting between
// cards. It stops early only when ctx is done.
func (s *PriceUpdateService) UpdateTopCards(ctx context.Context, n int) (*PriceUpdateReport, error) {
	log := logrus.WithField("component", "price_update")

	cards, err := s.cards.TopCardsByScore(ctx, n)
	if err != nil {
		return nil, err
	}
	log.WithField("cards", len(cards)).Info("Starting price update")

	report := &PriceUpdateReport{}
	for i, card := range cards {
		if i > 0 && s.cardDelay > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(s.cardDelay):
			}
		}

		report.Processed++
		result, err := s.RefreshCard(ctx, card.ID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Errors++
			log.WithError(err).WithField("card_id", card.ID).Warn("Price refresh failed")
		case len(result.Recorded) == 0:
			report.NoPrices++
			log.WithField("card_id", card.ID).Debug("No prices found")
		default:
			report.Updated++
		}
	}

	log.WithFields(logrus.Fields{
		"processed": report.Processed,
		"updated":   report.Updated,
		"no_prices": report.NoPrices,
		"errors":    report.Errors,
	}).Info("Price update completed")
	return report, nil
}

// Start runs UpdateTopCards every interval until ctx is cancelled.
func (s *PriceUpdateService) Start(ctx context.Context, interval time.Duration, n int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.UpdateTopCards(ctx, n); err != nil && ctx.Err() == nil {
				logrus.WithError(err).Error("Scheduled price update failed")
			}
		}
	}
}
