// internal/scraper/retailers.go
package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

const (
	RetailerTCGPlayer  = "TCGPlayer"
	RetailerCardmarket = "Cardmarket"
	RetailerEbay       = "eBay"

	ConditionNearMint = "NM"
	ConditionUnknown  = "Unknown"
)

// Price is one retailer quote found by a scraper.
type Price struct {
	Retailer  string          `json:"retailer"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	URL       string          `json:"url"`
	Condition string          `json:"condition"`
	InStock   bool            `json:"in_stock"`
}

func (p Price) RetailerKey() string { return p.Retailer }
func (p Price) PriceAmount() decimal.Decimal { return p.Price }
func (p Price) PriceCurrency() string { return p.Currency }

// Retailer scrapes one marketplace. A nil price with a nil error means no match.
type Retailer interface {
	Name() string
	Scrape(ctx context.Context, cardName, setName string) (*Price, error)
}

type TCGPlayer struct {
	BaseURL string
	Fetcher Fetcher
}

func (r *TCGPlayer) Name() string { return RetailerTCGPlayer }

func (r *TCGPlayer) Scrape(ctx context.Context, cardName, setName string) (*Price, error) {
	searchURL := r.BaseURL + "/search/magic/product?q=" + url.QueryEscape(cardName)

	var found *Price
	err := r.Fetcher.Fetch(ctx, searchURL, func(doc *goquery.Selection) {
		doc.Find(".product-listing").EachWithBreak(func(_ int, listing *goquery.Selection) bool {
			name := strings.TrimSpace(listing.Find(".product-name").Text())
			price, ok := parsePrice(listing.Find(".product-price").Text(), false)
			if name == "" || !ok {
				return true
			}
			found = &Price{
				Retailer:  RetailerTCGPlayer,
				Name:      name,
				Price:     price,
				Currency:  "USD",
				URL:       absoluteURL(r.BaseURL, listing.Find("a").AttrOr("href", "")),
				Condition: ConditionNearMint,
				InStock:   true,
			}
			return false
		})
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

type Cardmarket struct {
	BaseURL string
	Fetcher Fetcher
}

func (r *Cardmarket) Name() string { return RetailerCardmarket }

// Scrape keeps the last product whose name contains cardName.
func (r *Cardmarket) Scrape(ctx context.Context, cardName, setName string) (*Price, error) {
	searchURL := r.BaseURL + "/en/Magic/Products/Search?searchString=" + url.QueryEscape(cardName)
	needle := strings.ToLower(cardName)

	var found *Price
	err := r.Fetcher.Fetch(ctx, searchURL, func(doc *goquery.Selection) {
		doc.Find(".product-name").Each(func(_ int, el *goquery.Selection) {
			if !strings.Contains(strings.ToLower(strings.TrimSpace(el.Text())), needle) {
				return
			}
			price, ok := parsePrice(el.Closest(".product-row").Find(".price-tag").First().Text(), true)
			href := el.AttrOr("href", "")
			if !ok || href == "" {
				return
			}
			found = &Price{
				Retailer:  RetailerCardmarket,
				Name:      cardName,
				Price:     price,
				Currency:  "EUR",
				URL:       absoluteURL(r.BaseURL, href),
				Condition: ConditionNearMint,
				InStock:   true,
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

type Ebay struct {
	BaseURL string
	Fetcher Fetcher
}

func (r *Ebay) Name() string { return RetailerEbay }

// Scrape returns the lowest-priced listing whose title contains cardName.
func (r *Ebay) Scrape(ctx context.Context, cardName, setName string) (*Price, error) {
	searchURL := r.BaseURL + "/sch/i.html?_nkw=" + url.QueryEscape(cardName+" magic card") + "&_sacat=19126"
	needle := strings.ToLower(cardName)

	var found *Price
	err := r.Fetcher.Fetch(ctx, searchURL, func(doc *goquery.Selection) {
		doc.Find(".s-item").Each(func(_ int, item *goquery.Selection) {
			title := strings.ToLower(strings.TrimSpace(item.Find(".s-item__title").Text()))
			price, ok := parsePrice(item.Find(".s-item__price").Text(), false)
			link := item.Find("a.s-item__link").AttrOr("href", "")
			if !ok || link == "" || !strings.Contains(title, needle) {
				return
			}
			if found == nil || price.LessThan(found.Price) {
				found = &Price{
					Retailer:  RetailerEbay,
					Name:      cardName,
					Price:     price,
					Currency:  "USD",
					URL:       link,
					Condition: ConditionUnknown,
					InStock:   true,
				}
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// parsePrice reads the first amount in text such as "$1,234.50", "12,50 €"
// or "$3.00 to $9.00". Non-positive amounts are rejected.
func parsePrice(text string, decimalComma bool) (decimal.Decimal, bool) {
	text = strings.NewReplacer("$", "", "€", "", "\u00a0", " ").Replace(text)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return decimal.Zero, false
	}
	amount := fields[0]
	if decimalComma {
		amount = strings.ReplaceAll(amount, ".", "")
		amount = strings.ReplaceAll(amount, ",", ".")
	} else {
		amount = strings.ReplaceAll(amount, ",", "")
	}

	d, err := decimal.NewFromString(amount)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

func absoluteURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return strings.TrimRight(base, "/") + href
}
