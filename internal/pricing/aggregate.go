// internal/pricing/aggregate.go
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// EURToUSD is the fixed conversion factor applied to euro quotes.
var EURToUSD = decimal.NewFromFloat(1.1)

// Priced is an observation that carries an amount and its currency.
type Priced interface {
	PriceAmount() decimal.Decimal
	PriceCurrency() string
}

// Keyed is an observation attributed to a retailer.
type Keyed interface {
	RetailerKey() string
}

// Observation is what the aggregator reduces.
type Observation interface {
	Priced
	Keyed
}

// NormalizeUSD converts price to USD. EUR is multiplied by EURToUSD,
// every other currency is taken as USD.
func NormalizeUSD(price decimal.Decimal, currency string) decimal.Decimal {
	if strings.EqualFold(currency, "EUR") {
		return price.Mul(EURToUSD)
	}
	return price
}

// LatestByRetailer keeps the first observation seen for each retailer.
// Input must be ordered by retailer, then most recent first.
func LatestByRetailer[T Keyed](observations []T) []T {
	seen := make(map[string]struct{}, len(observations))
	latest := make([]T, 0, len(observations))
	for _, o := range observations {
		key := o.RetailerKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		latest = append(latest, o)
	}
	return latest
}

// Cheapest returns the observation with the lowest USD-normalized price.
// Ties go to the first one encountered. ok is false for an empty input.
func Cheapest[T Priced](observations []T) (best T, usd decimal.Decimal, ok bool) {
	for _, o := range observations {
		v := NormalizeUSD(o.PriceAmount(), o.PriceCurrency())
		if !ok || v.LessThan(usd) {
			best, usd, ok = o, v, true
		}
	}
	return best, usd, ok
}
