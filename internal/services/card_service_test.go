package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/database"
	"github.com/javajoker/cardshop/internal/models"
	"github.com/javajoker/cardshop/internal/sources"
)

type stubSearcher struct {
	cards []sources.NormalizedCard
	err   error
	calls int
}

func (s *stubSearcher) Search(ctx context.Context, name string, ceiling decimal.Decimal, game string) ([]sources.NormalizedCard, error) {
	s.calls++
	return s.cards, s.err
}

func seedCard(t *testing.T, db *gorm.DB, externalID, name, rarity, price string) *models.Card {
	t.Helper()
	card := &models.Card{ExternalID: externalID, Game: "mtg", Name: name, Rarity: rarity, SetCode: "lea", SetName: "Alpha"}
	if price != "" {
		card.PriceUSD = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	require.NoError(t, db.Create(card).Error)
	return card
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func names(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Name
	}
	return out
}

func TestSearchCardsMaxPriceNeverExceeded(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewCardService(db, &stubSearcher{})
	seedCard(t, db, "a", "Sol Ring", "uncommon", "3.50")
	seedCard(t, db, "b", "Mana Crypt", "mythic", "50.00")
	seedCard(t, db, "c", "Mox Ruby", "rare", "50.01")
	seedCard(t, db, "d", "Unpriced Proxy", "common", "")

	page, err := svc.SearchCards(context.Background(), CardQuery{MaxPrice: dec("50")})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Sol Ring", "Mana Crypt"}, names(page.Cards))
	for _, c := range page.Cards {
		assert.True(t, c.PriceUSD.Decimal.LessThanOrEqual(decimal.NewFromInt(50)), c.Name)
	}
}

func TestSearchCardsFiltersAreAnded(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewCardService(db, &stubSearcher{})
	seedCard(t, db, "a", "Lightning Bolt", "common", "1.00")
	seedCard(t, db, "b", "Lightning Helix", "uncommon", "0.50")
	seedCard(t, db, "c", "Chain Lightning", "common", "9.00")

	page, err := svc.SearchCards(context.Background(), CardQuery{
		Name:     "lightning",
		Rarity:   "common",
		MinPrice: dec("2"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Chain Lightning"}, names(page.Cards))
}

func TestSearchCardsSortingAndPaging(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewCardService(db, &stubSearcher{})
	seedCard(t, db, "a", "Bravo", "common", "2.00")
	seedCard(t, db, "b", "Alpha", "common", "3.00")
	seedCard(t, db, "c", "Charlie", "common", "1.00")

	ctx := context.Background()

	page, err := svc.SearchCards(ctx, CardQuery{SortBy: "price", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, names(page.Cards))
	assert.False(t, page.Meta.HasMore)

	page, err = svc.SearchCards(ctx, CardQuery{SortBy: "bogus", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, names(page.Cards), "unknown key sorts by name ascending")

	page, err = svc.SearchCards(ctx, CardQuery{SortBy: "name", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo"}, names(page.Cards))
	assert.True(t, page.Meta.HasMore)

	page, err = svc.SearchCards(ctx, CardQuery{SortBy: "name", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Charlie"}, names(page.Cards))
	assert.False(t, page.Meta.HasMore)
}

func TestSearchCardsRejectsNegativeBound(t *testing.T) {
	svc := NewCardService(database.NewTestDB(t), &stubSearcher{})
	_, err := svc.SearchCards(context.Background(), CardQuery{MinPrice: dec("-1")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpsertCardUpdatesByExternalID(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewCardService(db, &stubSearcher{})
	ctx := context.Background()

	first, err := svc.UpsertCard(ctx, &models.Card{
		ExternalID: "abc",
		Game:       "mtg",
		Name:       "Sol Ring",
		SetName:    "Commander",
		PriceUSD:   decimal.NewNullDecimal(decimal.RequireFromString("1.50")),
	})
	require.NoError(t, err)

	second, err := svc.UpsertCard(ctx, &models.Card{
		ExternalID: "abc",
		Game:       "mtg",
		Name:       "Sol Ring",
		SetName:    "ignored on conflict",
		PriceUSD:   decimal.NewNullDecimal(decimal.RequireFromString("2.25")),
	})
	require.NoError(t, err)

	var count int64
	db.Model(&models.Card{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "2.25", second.PriceUSD.Decimal.StringFixed(2))
	assert.Equal(t, "Commander", second.SetName)
}

func TestUpsertCardRequiresIdentity(t *testing.T) {
	svc := NewCardService(database.NewTestDB(t), &stubSearcher{})
	_, err := svc.UpsertCard(context.Background(), &models.Card{Name: "No ID"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestImportCardScoresRecord(t *testing.T) {
	svc := NewCardService(database.NewTestDB(t), &stubSearcher{})
	power, toughness := "2", "2"

	card, err := svc.ImportCard(context.Background(), sources.NormalizedCard{
		ExternalID: "bear",
		Name:       "Grizzly Bears",
		CMC:        2,
		Power:      &power,
		Toughness:  &toughness,
	})
	require.NoError(t, err)
	assert.Equal(t, "mtg", card.Game)
	assert.Equal(t, "2.00", card.CostBenefitScore.Decimal.StringFixed(2))
}

func TestUpdateCardPrices(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewCardService(db, &stubSearcher{})
	card := seedCard(t, db, "a", "Sol Ring", "uncommon", "3.50")
	usd, eur := "4.00", "3.10"

	updated, err := svc.UpdateCardPrices(context.Background(), card.ID, &UpdatePricesRequest{PriceUSD: &usd, PriceEUR: &eur})
	require.NoError(t, err)
	assert.Equal(t, "4.00", updated.PriceUSD.Decimal.StringFixed(2))
	assert.Equal(t, "3.10", updated.PriceEUR.Decimal.StringFixed(2))
	assert.False(t, updated.PriceFoil.Valid)

	bad := "-2"
	_, err = svc.UpdateCardPrices(context.Background(), card.ID, &UpdatePricesRequest{PriceUSD: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateCardPricesClearsColumns(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewCardService(db, &stubSearcher{})
	card := seedCard(t, db, "a", "Sol Ring", "uncommon", "3.50")
	foil := "9.00"

	updated, err := svc.UpdateCardPrices(context.Background(), card.ID, &UpdatePricesRequest{PriceFoil: &foil, Clear: []string{"price_usd"}})
	require.NoError(t, err)
	assert.False(t, updated.PriceUSD.Valid)
	assert.Equal(t, "9.00", updated.PriceFoil.Decimal.StringFixed(2))

	_, err = svc.UpdateCardPrices(context.Background(), card.ID, &UpdatePricesRequest{PriceFoil: &foil, Clear: []string{"price_foil"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateCardPrices(context.Background(), card.ID, &UpdatePricesRequest{Clear: []string{"name"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteCardRemovesCartAndWishlistEntries(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewCardService(db, &stubSearcher{})
	card := seedCard(t, db, "a", "Sol Ring", "uncommon", "3.50")
	user := seedUser(t, db, "buyer@example.com")

	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, CardID: card.ID, Quantity: 1, PriceAtAddTime: decimal.NewFromInt(3)}).Error)
	require.NoError(t, db.Create(&models.WishlistItem{UserID: user.ID, CardID: card.ID}).Error)

	require.NoError(t, svc.DeleteCard(context.Background(), card.ID))

	var carts, wishes int64
	db.Model(&models.CartItem{}).Count(&carts)
	db.Model(&models.WishlistItem{}).Count(&wishes)
	assert.Zero(t, carts)
	assert.Zero(t, wishes)

	assert.ErrorIs(t, svc.DeleteCard(context.Background(), card.ID), ErrCardNotFound)
}

func TestSuggestFuzzyMatchesNames(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewCardService(db, &stubSearcher{})
	seedCard(t, db, "a", "Black Lotus", "rare", "")
	seedCard(t, db, "b", "Lotus Petal", "common", "")
	seedCard(t, db, "c", "Counterspell", "common", "")

	cards, err := svc.Suggest(context.Background(), "lotus", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Black Lotus", "Lotus Petal"}, names(cards))

	_, err = svc.Suggest(context.Background(), "  ", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearchExternalMapsInputErrors(t *testing.T) {
	searcher := &stubSearcher{err: sources.ErrEmptyName}
	svc := NewCardService(database.NewTestDB(t), searcher)

	_, err := svc.SearchExternal(context.Background(), "", decimal.NewFromInt(100), "mtg")
	assert.ErrorIs(t, err, ErrInvalidInput)

	searcher.err = nil
	searcher.cards = []sources.NormalizedCard{{ExternalID: "x", Name: "Opt"}}
	cards, err := svc.SearchExternal(context.Background(), "opt", decimal.NewFromInt(100), "mtg")
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestTopCardsByScore(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewCardService(db, &stubSearcher{})

	for i, score := range []string{"1.50", "4.00", ""} {
		card := &models.Card{ExternalID: string(rune('a' + i)), Game: "mtg", Name: "Card " + string(rune('A'+i))}
		if score != "" {
			card.CostBenefitScore = decimal.NewNullDecimal(decimal.RequireFromString(score))
		}
		require.NoError(t, db.Create(card).Error)
	}

	cards, err := svc.TopCardsByScore(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Card B", "Card A"}, names(cards))
}
