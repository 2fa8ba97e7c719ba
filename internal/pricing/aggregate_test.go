package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	retailer string
	price    string
	currency string
}

func (q quote) RetailerKey() string { return q.retailer }
func (q quote) PriceAmount() decimal.Decimal { return decimal.RequireFromString(q.price) }
func (q quote) PriceCurrency() string { return q.currency }

func TestNormalizeUSD(t *testing.T) {
	assert.True(t, NormalizeUSD(decimal.NewFromInt(100), "EUR").Equal(decimal.NewFromInt(110)))
	assert.True(t, NormalizeUSD(decimal.NewFromInt(100), "eur").Equal(decimal.NewFromInt(110)))
	assert.True(t, NormalizeUSD(decimal.NewFromInt(100), "USD").Equal(decimal.NewFromInt(100)))
	assert.True(t, NormalizeUSD(decimal.NewFromInt(100), "GBP").Equal(decimal.NewFromInt(100)))
	assert.True(t, NormalizeUSD(decimal.NewFromInt(100), "").Equal(decimal.NewFromInt(100)))
}

func TestCheapestComparesNormalizedValues(t *testing.T) {
	obs := []quote{
		{retailer: "cardmarket", price: "100", currency: "EUR"},
		{retailer: "tcgplayer", price: "109", currency: "USD"},
	}

	best, usd, ok := Cheapest(obs)
	require.True(t, ok)
	assert.Equal(t, "tcgplayer", best.retailer)
	assert.Equal(t, "109", usd.String())
}

func TestCheapestTieKeepsFirst(t *testing.T) {
	obs := []quote{
		{retailer: "cardmarket", price: "10", currency: "EUR"},
		{retailer: "ebay", price: "11", currency: "USD"},
		{retailer: "tcgplayer", price: "11.00", currency: "USD"},
	}

	best, usd, ok := Cheapest(obs)
	require.True(t, ok)
	assert.Equal(t, "cardmarket", best.retailer)
	assert.True(t, usd.Equal(decimal.NewFromInt(11)))
}

func TestCheapestEmpty(t *testing.T) {
	_, _, ok := Cheapest([]quote{})
	assert.False(t, ok)
}

func TestCheapestIsLowerBound(t *testing.T) {
	obs := []quote{
		{retailer: "a", price: "4.20", currency: "USD"},
		{retailer: "b", price: "3.50", currency: "EUR"},
		{retailer: "c", price: "3.99", currency: "USD"},
		{retailer: "d", price: "12", currency: "USD"},
	}

	_, usd, ok := Cheapest(obs)
	require.True(t, ok)
	for _, o := range obs {
		assert.True(t, usd.LessThanOrEqual(NormalizeUSD(o.PriceAmount(), o.PriceCurrency())))
	}
}

func TestLatestByRetailer(t *testing.T) {
	obs := []quote{
		{retailer: "cardmarket", price: "1.00", currency: "EUR"},
		{retailer: "cardmarket", price: "2.00", currency: "EUR"},
		{retailer: "ebay", price: "3.00", currency: "USD"},
		{retailer: "tcgplayer", price: "4.00", currency: "USD"},
		{retailer: "tcgplayer", price: "5.00", currency: "USD"},
	}

	latest := LatestByRetailer(obs)
	require.Len(t, latest, 3)
	assert.Equal(t, "1.00", latest[0].price)
	assert.Equal(t, "ebay", latest[1].retailer)
	assert.Equal(t, "4.00", latest[2].price)
}
