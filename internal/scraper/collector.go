// internal/scraper/collector.go
package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/javajoker/cardshop/internal/config"
	"github.com/javajoker/cardshop/internal/pricing"
)

// Result is every quote found for a card plus the cheapest one.
type Result struct {
	CardName    string          `json:"card_name"`
	Prices      []Price         `json:"prices"`
	Cheapest    Price           `json:"cheapest"`
	CheapestUSD decimal.Decimal `json:"cheapest_usd"`
}

// Collector queries retailers in order, spaced by a fixed delay.
type Collector struct {
	retailers []Retailer
	limiter   *rate.Limiter
}

func NewCollector(cfg config.ScraperConfig) *Collector {
	timeout := time.Duration(cfg.Timeout) * time.Second

	var fetcher Fetcher
	if cfg.Headless {
		fetcher = &ChromeFetcher{UserAgent: cfg.UserAgent, Timeout: timeout}
	} else {
		fetcher = &CollyFetcher{UserAgent: cfg.UserAgent, Timeout: timeout}
	}

	return NewCollectorWith(time.Duration(cfg.DelayMillis)*time.Millisecond,
		&TCGPlayer{BaseURL: strings.TrimRight(cfg.TCGPlayerURL, "/"), Fetcher: fetcher},
		&Cardmarket{BaseURL: strings.TrimRight(cfg.CardmarketURL, "/"), Fetcher: fetcher},
		&Ebay{BaseURL: strings.TrimRight(cfg.EbayURL, "/"), Fetcher: fetcher},
	)
}

func NewCollectorWith(delay time.Duration, retailers ...Retailer) *Collector {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Collector{
		retailers: retailers,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// GetAllPrices returns nil when no retailer produced a quote. Retailer
// failures are logged and skipped; only context cancellation is an error.
func (c *Collector) GetAllPrices(ctx context.Context, cardName, setName string) (*Result, error) {
	log := logrus.WithFields(logrus.Fields{
		"component": "scraper",
		"card":      cardName,
	})

	var prices []Price
	for _, r := range c.retailers {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		p, err := r.Scrape(ctx, cardName, setName)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).WithField("retailer", r.Name()).Warn("Retailer scrape failed")
			continue
		}
		if p == nil {
			log.WithField("retailer", r.Name()).Debug("No listing found")
			continue
		}
		prices = append(prices, *p)
	}

	cheapest, usd, ok := pricing.Cheapest(prices)
	if !ok {
		return nil, nil
	}
	return &Result{
		CardName:    cardName,
		Prices:      prices,
		Cheapest:    cheapest,
		CheapestUSD: usd,
	}, nil
}
