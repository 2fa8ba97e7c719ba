// internal/services/card_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/cardshop/internal/models"
	"github.com/javajoker/cardshop/internal/sources"
	"github.com/javajoker/cardshop/internal/utils"
)

type CardService struct {
	db      *gorm.DB
	sources sources.Searcher
}

// CardQuery filters are ANDed; zero values are ignored.
type CardQuery struct {
	Name      string
	Rarity    string
	SetCode   string
	Colors    string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

type CardPage struct {
	Cards []models.Card  `json:"cards"`
	Meta  utils.PageMeta `json:"meta"`
}

// UpdatePricesRequest sets the non-nil prices and sets the columns named in
// Clear to NULL. A column may not be both set and cleared.
type UpdatePricesRequest struct {
	PriceUSD  *string  `json:"price_usd" validate:"omitempty,decimal_string"`
	PriceEUR  *string  `json:"price_eur" validate:"omitempty,decimal_string"`
	PriceFoil *string  `json:"price_foil" validate:"omitempty,decimal_string"`
	Clear     []string `json:"clear" validate:"omitempty,dive,oneof=price_usd price_eur price_foil"`
}

var cardSortColumns = map[string]string{
	"name":       "name",
	"price":      "price_usd",
	"price_usd":  "price_usd",
	"rarity":     "rarity",
	"setName":    "set_name",
	"set_name":   "set_name",
	"createdAt":  "created_at",
	"created_at": "created_at",
}

// upsertColumns are refreshed when an external id already exists.
var upsertColumns = []string{
	"name", "price_usd", "price_eur", "price_foil",
	"cost_benefit_score", "edhrec_rank", "updated_at",
}

const suggestCandidates = 5000

func NewCardService(db *gorm.DB, searcher sources.Searcher) *CardService {
	return &CardService{
		db:      db,
		sources: searcher,
	}
}

func (s *CardService) SearchCards(ctx context.Context, q CardQuery) (*CardPage, error) {
	if (q.MinPrice != nil && q.MinPrice.IsNegative()) || (q.MaxPrice != nil && q.MaxPrice.IsNegative()) {
		return nil, fmt.Errorf("%w: price bounds must be non-negative", ErrInvalidInput)
	}
	if q.Limit <= 0 || q.Limit > utils.MaxLimit {
		q.Limit = utils.DefaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	query := s.db.WithContext(ctx).Model(&models.Card{})

	if name := strings.TrimSpace(q.Name); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if q.Rarity != "" {
		query = query.Where("rarity = ?", q.Rarity)
	}
	if q.SetCode != "" {
		query = query.Where("set_code = ?", q.SetCode)
	}
	if q.Colors != "" {
		query = query.Where("colors LIKE ?", "%"+q.Colors+"%")
	}
	// Cards without a USD price never satisfy a price bound.
	if q.MinPrice != nil {
		query = query.Where("price_usd >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("price_usd <= ?", *q.MaxPrice)
	}

	query = query.Order(cardOrder(q.SortBy, q.SortOrder)).Order("id ASC")

	var cards []models.Card
	if err := query.Limit(q.Limit + 1).Offset(q.Offset).Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to search cards: %w", err)
	}

	hasMore := len(cards) > q.Limit
	if hasMore {
		cards = cards[:q.Limit]
	}

	return &CardPage{
		Cards: cards,
		Meta: utils.PageMeta{
			Limit:   q.Limit,
			Offset:  q.Offset,
			HasMore: hasMore,
		},
	}, nil
}

func cardOrder(sortBy, sortOrder string) clause.OrderByColumn {
	column, ok := cardSortColumns[sortBy]
	if !ok {
		return clause.OrderByColumn{Column: clause.Column{Name: "name"}}
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   strings.EqualFold(sortOrder, "desc"),
	}
}

func (s *CardService) GetCard(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	var card models.Card
	if err := s.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &card, nil
}

func (s *CardService) GetCardByExternalID(ctx context.Context, externalID string) (*models.Card, error) {
	var card models.Card
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &card, nil
}

// UpsertCard inserts the card or, when its external id exists, refreshes
// the name, price fields, score and rank. It returns the stored row.
func (s *CardService) UpsertCard(ctx context.Context, card *models.Card) (*models.Card, error) {
	if strings.TrimSpace(card.ExternalID) == "" || strings.TrimSpace(card.Name) == "" {
		return nil, fmt.Errorf("%w: external id and name are required", ErrInvalidInput)
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(card).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert card %s: %w", card.ExternalID, err)
	}

	return s.GetCardByExternalID(ctx, card.ExternalID)
}

// ImportCard stores a provider record, scoring it when the provider did not.
func (s *CardService) ImportCard(ctx context.Context, nc sources.NormalizedCard) (*models.Card, error) {
	if nc.CostBenefitScore == "" {
		nc.CostBenefitScore = sources.CostBenefitScore(nc.CMC, nc.Power, nc.Toughness, nc.Keywords)
	}
	if nc.Game == "" {
		nc.Game = sources.GameMTG
	}
	return s.UpsertCard(ctx, nc.Card())
}

// UpdateCardPrices overwrites the given price fields; last writer wins.
func (s *CardService) UpdateCardPrices(ctx context.Context, id uuid.UUID, req *UpdatePricesRequest) (*models.Card, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	card, err := s.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	for column, value := range map[string]*string{
		"price_usd":  req.PriceUSD,
		"price_eur":  req.PriceEUR,
		"price_foil": req.PriceFoil,
	} {
		if value == nil {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(*value))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, column, err)
		}
		updates[column] = d
	}
	for _, column := range req.Clear {
		if _, set := updates[column]; set {
			return nil, fmt.Errorf("%w: %s is both set and cleared", ErrInvalidInput, column)
		}
		updates[column] = nil
	}
	if len(updates) == 0 {
		return card, nil
	}

	if err := s.db.WithContext(ctx).Model(card).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update card prices: %w", err)
	}

	return s.GetCard(ctx, id)
}

func (s *CardService) SetImageURL(ctx context.Context, id uuid.UUID, url string) (*models.Card, error) {
	card, err := s.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(card).Update("image_url", url).Error; err != nil {
		return nil, fmt.Errorf("failed to update card image: %w", err)
	}
	card.ImageURL = url
	return card, nil
}

// DeleteCard removes the card with its cart and wishlist entries. Price
// history and order items are kept.
func (s *CardService) DeleteCard(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Card{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete card: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrCardNotFound
		}
		if err := tx.Where("card_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items: %w", err)
		}
		if err := tx.Where("card_id = ?", id).Delete(&models.WishlistItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete wishlist items: %w", err)
		}
		return nil
	})
}

// TopCardsByScore returns the best cost-benefit cards first.
func (s *CardService) TopCardsByScore(ctx context.Context, limit int) ([]models.Card, error) {
	var cards []models.Card
	err := s.db.WithContext(ctx).
		Where("cost_benefit_score IS NOT NULL").
		Order("cost_benefit_score DESC").
		Limit(limit).
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load top cards: %w", err)
	}
	return cards, nil
}

type suggestSource []models.Card

func (c suggestSource) String(i int) string { return c[i].Name }
func (c suggestSource) Len() int            { return len(c) }

// Suggest fuzzy-matches q against catalog names, best match first.
func (s *CardService) Suggest(ctx context.Context, q string, limit int) ([]models.Card, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if limit <= 0 || limit > utils.MaxLimit {
		limit = 10
	}

	var candidates []models.Card
	err := s.db.WithContext(ctx).
		Select("id", "external_id", "game", "name", "set_code", "set_name", "image_url", "price_usd").
		Order("name ASC").
		Limit(suggestCandidates).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load suggestion candidates: %w", err)
	}

	matches := fuzzy.FindFrom(q, suggestSource(candidates))
	out := make([]models.Card, 0, limit)
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, candidates[m.Index])
	}
	return out, nil
}

// SearchExternal queries the provider for game without touching the catalog.
func (s *CardService) SearchExternal(ctx context.Context, name string, maxPrice decimal.Decimal, game string) ([]sources.NormalizedCard, error) {
	cards, err := s.sources.Search(ctx, name, maxPrice, game)
	if err != nil {
		if errors.Is(err, sources.ErrEmptyName) || errors.Is(err, sources.ErrInvalidCeiling) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}
	return cards, nil
}
