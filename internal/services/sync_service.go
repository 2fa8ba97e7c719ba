// internal/services/sync_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/javajoker/cardshop/internal/sources"
)

// CatalogPager walks the provider's bulk catalog one page at a time.
type CatalogPager interface {
	SyncURL() string
	Page(ctx context.Context, pageURL string) (*sources.ScryfallPage, error)
}

type SyncService struct {
	cards    *CardService
	pager    CatalogPager
	maxPages int
	limiter  *rate.Limiter
}

type SyncReport struct {
	Pages    int `json:"pages"`
	Upserted int `json:"upserted"`
	Failed   int `json:"failed"`
}

func NewSyncService(cards *CardService, pager CatalogPager, maxPages int, delay time.Duration) *SyncService {
	if maxPages <= 0 {
		maxPages = 5
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &SyncService{
		cards:    cards,
		pager:    pager,
		maxPages: maxPages,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Sync upserts every card on up to maxPages pages. A failing card is
// counted and skipped; a failing page aborts the run.
func (s *SyncService) Sync(ctx context.Context) (*SyncReport, error) {
	log := logrus.WithField("component", "sync")
	report := &SyncReport{}

	next := s.pager.SyncURL()
	for next != "" && report.Pages < s.maxPages {
		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}

		page, err := s.pager.Page(ctx, next)
		if err != nil {
			return report, fmt.Errorf("failed to fetch page %d: %w", report.Pages+1, err)
		}
		report.Pages++

		for _, nc := range page.Cards {
			if _, err := s.cards.ImportCard(ctx, nc); err != nil {
				report.Failed++
				log.WithError(err).WithField("external_id", nc.ExternalID).Warn("Failed to upsert card")
				continue
			}
			report.Upserted++
		}

		log.WithFields(logrus.Fields{
			"page":  report.Pages,
			"cards": len(page.Cards),
		}).Info("Synced page")
		next = page.NextPage
	}

	return report, nil
}
