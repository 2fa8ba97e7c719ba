// internal/sources/scryfall.go
package sources

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// SyncQuery is the catalog query used by the bulk sync.
const SyncQuery = "is:booster"

type scryfallImages struct {
	Normal string `json:"normal"`
	Large  string `json:"large"`
}

type scryfallCard struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	ManaCost        string          `json:"mana_cost"`
	CMC             float64         `json:"cmc"`
	TypeLine        string          `json:"type_line"`
	OracleText      string          `json:"oracle_text"`
	Power           *string         `json:"power"`
	Toughness       *string         `json:"toughness"`
	Colors          []string        `json:"colors"`
	ColorIdentity   []string        `json:"color_identity"`
	Rarity          string          `json:"rarity"`
	Set             string          `json:"set"`
	SetName         string          `json:"set_name"`
	CollectorNumber string          `json:"collector_number"`
	ReleasedAt      string          `json:"released_at"`
	ImageURIs       *scryfallImages `json:"image_uris"`
	CardFaces       []struct {
		ImageURIs *scryfallImages `json:"image_uris"`
	} `json:"card_faces"`
	Prices struct {
		USD     *string `json:"usd"`
		EUR     *string `json:"eur"`
		USDFoil *string `json:"usd_foil"`
	} `json:"prices"`
	EDHRECRank   *int                   `json:"edhrec_rank"`
	Keywords     []string               `json:"keywords"`
	Legalities   map[string]interface{} `json:"legalities"`
	PurchaseURIs struct {
		TCGPlayer  string `json:"tcgplayer"`
		Cardmarket string `json:"cardmarket"`
	} `json:"purchase_uris"`
	ScryfallURI string `json:"scryfall_uri"`
}

type scryfallList struct {
	TotalCards int             `json:"total_cards"`
	HasMore    bool            `json:"has_more"`
	NextPage   string          `json:"next_page"`
	Data       *[]scryfallCard `json:"data"`
}

// ScryfallPage is one page of a Scryfall search.
type ScryfallPage struct {
	Cards    []NormalizedCard
	NextPage string
}

type ScryfallAdapter struct {
	client     *httpClient
	baseURL    string
	maxResults int
}

func (a *ScryfallAdapter) Name() string { return "scryfall" }

func (a *ScryfallAdapter) Search(ctx context.Context, name string, ceiling decimal.Decimal) ([]NormalizedCard, error) {
	searchURL := a.baseURL + "/cards/search?q=" + url.QueryEscape(name)

	var list scryfallList
	if err := a.client.getJSON(ctx, searchURL, nil, &list); err != nil {
		return nil, err
	}
	if list.Data == nil {
		return []NormalizedCard{}, nil
	}

	cards := make([]NormalizedCard, 0, a.maxResults)
	for _, c := range *list.Data {
		if !withinCeiling(c.Prices.USD, ceiling) {
			continue
		}
		cards = append(cards, c.normalize())
		if len(cards) == a.maxResults {
			break
		}
	}
	return cards, nil
}

// SyncURL is the first page of the bulk catalog sync.
func (a *ScryfallAdapter) SyncURL() string {
	return a.baseURL + "/cards/search?q=" + url.QueryEscape(SyncQuery) + "&order=released&dir=desc&page=1"
}

// Page fetches one search page without applying a price ceiling.
// A 404 is Scryfall's answer for "no cards" and yields an empty page.
func (a *ScryfallAdapter) Page(ctx context.Context, pageURL string) (*ScryfallPage, error) {
	var list scryfallList
	if err := a.client.getJSON(ctx, pageURL, nil, &list); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return &ScryfallPage{}, nil
		}
		return nil, err
	}

	page := &ScryfallPage{}
	if list.Data == nil {
		return page, nil
	}
	for _, c := range *list.Data {
		page.Cards = append(page.Cards, c.normalize())
	}
	if list.HasMore {
		page.NextPage = list.NextPage
	}
	return page, nil
}

func (c scryfallCard) imageURL() string {
	images := c.ImageURIs
	if images == nil && len(c.CardFaces) > 0 {
		images = c.CardFaces[0].ImageURIs
	}
	if images == nil {
		return ""
	}
	if images.Normal != "" {
		return images.Normal
	}
	return images.Large
}

func (c scryfallCard) normalize() NormalizedCard {
	power, toughness := nonEmpty(c.Power), nonEmpty(c.Toughness)

	card := NormalizedCard{
		ExternalID:       c.ID,
		Game:             GameMTG,
		Name:             c.Name,
		ManaCost:         c.ManaCost,
		CMC:              c.CMC,
		TypeLine:         c.TypeLine,
		OracleText:       c.OracleText,
		Power:            power,
		Toughness:        toughness,
		Colors:           strings.Join(c.Colors, ","),
		ColorIdentity:    strings.Join(c.ColorIdentity, ","),
		Rarity:           c.Rarity,
		SetCode:          c.Set,
		SetName:          c.SetName,
		CollectorNumber:  c.CollectorNumber,
		ReleaseDate:      c.ReleasedAt,
		ImageURL:         c.imageURL(),
		PriceUSD:         nonEmpty(c.Prices.USD),
		PriceEUR:         nonEmpty(c.Prices.EUR),
		PriceFoil:        nonEmpty(c.Prices.USDFoil),
		CostBenefitScore: CostBenefitScore(c.CMC, power, toughness, c.Keywords),
		EDHRECRank:       c.EDHRECRank,
		Keywords:         c.Keywords,
		Legalities:       c.Legalities,
	}
	if card.Keywords == nil {
		card.Keywords = []string{}
	}
	if card.Legalities == nil {
		card.Legalities = map[string]interface{}{}
	}

	if c.PurchaseURIs.TCGPlayer != "" {
		card.PurchaseLinks = append(card.PurchaseLinks, PurchaseLink{Rank: LinkPrimary, Retailer: "tcgplayer", URL: c.PurchaseURIs.TCGPlayer})
	}
	if c.PurchaseURIs.Cardmarket != "" {
		card.PurchaseLinks = append(card.PurchaseLinks, PurchaseLink{Rank: LinkSecondary, Retailer: "cardmarket", URL: c.PurchaseURIs.Cardmarket})
	}
	if c.ScryfallURI != "" {
		card.PurchaseLinks = append(card.PurchaseLinks, PurchaseLink{Rank: LinkDetail, Retailer: "scryfall", URL: c.ScryfallURI})
	}
	return card
}
