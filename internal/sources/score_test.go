package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostBenefitScore(t *testing.T) {
	p := func(s string) *string { return &s }

	assert.Equal(t, "0", CostBenefitScore(0, p("2"), p("2"), []string{"Flying"}))
	assert.Equal(t, "2.00", CostBenefitScore(2, p("2"), p("2"), nil))
	assert.Equal(t, "1.17", CostBenefitScore(3, p("2"), p("1"), []string{"Flying"}))
	assert.Equal(t, "0.50", CostBenefitScore(2, nil, p("3"), []string{"Haste", "Trample"}))
	assert.Equal(t, "0.25", CostBenefitScore(4, p("*"), p("1+*"), nil))
	assert.Equal(t, "0.00", CostBenefitScore(1, nil, nil, nil))
}

func TestParseGame(t *testing.T) {
	for in, want := range map[string]Game{
		"MTG":             GameMTG,
		"magic":           GameMTG,
		"Yu-Gi-Oh":        GameYuGiOh,
		"pokémon":         GamePokemon,
		"flesh-and-blood": GameFleshAndBlood,
		"weiss":           GameWeissSchwarz,
	} {
		g, ok := ParseGame(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, g, in)
	}

	_, ok := ParseGame("chess")
	assert.False(t, ok)
}

func TestNormalizedCardConversion(t *testing.T) {
	usd := "1.25"
	c := NormalizedCard{
		ExternalID:       "sol-1",
		Game:             GameMTG,
		Name:             "Sol Ring",
		PriceUSD:         &usd,
		CostBenefitScore: "0",
		Keywords:         []string{"Mana"},
	}

	card := c.Card()
	assert.Equal(t, "sol-1", card.ExternalID)
	assert.Equal(t, "mtg", card.Game)
	assert.True(t, card.PriceUSD.Valid)
	assert.Equal(t, "1.25", card.PriceUSD.Decimal.StringFixed(2))
	assert.False(t, card.PriceEUR.Valid)
	assert.True(t, card.CostBenefitScore.Valid)
	assert.Equal(t, []string{"Mana"}, []string(card.Keywords))
}
