// internal/sources/ygoprodeck.go
package sources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// YGOPRODeck publishes no prices, so every record gets these.
const (
	ygoPlaceholderPrice = "5.00"
	ygoPlaceholderScore = "1.0"
)

type ygoCard struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Desc     string `json:"desc"`
	Atk      *int   `json:"atk"`
	Def      *int   `json:"def"`
	CardSets []struct {
		SetName   string `json:"set_name"`
		SetCode   string `json:"set_code"`
		SetRarity string `json:"set_rarity"`
	} `json:"card_sets"`
	CardImages []struct {
		ImageURL string `json:"image_url"`
	} `json:"card_images"`
}

type ygoList struct {
	Data *[]ygoCard `json:"data"`
}

type YGOProDeckAdapter struct {
	client     *httpClient
	baseURL    string
	maxResults int
}

func (a *YGOProDeckAdapter) Name() string { return "ygoprodeck" }

// Search ignores the ceiling: placeholder prices are never filtered.
func (a *YGOProDeckAdapter) Search(ctx context.Context, name string, _ decimal.Decimal) ([]NormalizedCard, error) {
	searchURL := a.baseURL + "/cardinfo.php?fname=" + url.QueryEscape(name)

	var list ygoList
	if err := a.client.getJSON(ctx, searchURL, nil, &list); err != nil {
		return nil, err
	}
	if list.Data == nil {
		return []NormalizedCard{}, nil
	}

	data := *list.Data
	if len(data) > a.maxResults {
		data = data[:a.maxResults]
	}
	cards := make([]NormalizedCard, 0, len(data))
	for _, c := range data {
		cards = append(cards, c.normalize())
	}
	return cards, nil
}

func (c ygoCard) normalize() NormalizedCard {
	card := NormalizedCard{
		ExternalID:       "yugioh-" + strconv.FormatInt(c.ID, 10),
		Game:             GameYuGiOh,
		Name:             c.Name,
		TypeLine:         c.Type,
		OracleText:       c.Desc,
		Rarity:           "common",
		PriceUSD:         strPtr(ygoPlaceholderPrice),
		CostBenefitScore: ygoPlaceholderScore,
		Keywords:         []string{},
		Legalities:       map[string]interface{}{},
		PurchaseLinks: []PurchaseLink{
			{Rank: LinkPrimary, Retailer: "tcgplayer", URL: "https://www.tcgplayer.com/search/yugioh/product?productLineName=yugioh&q=" + url.QueryEscape(c.Name)},
			{Rank: LinkSecondary, Retailer: "cardmarket", URL: "https://www.cardmarket.com/en/YuGiOh/Products/Search?searchString=" + url.QueryEscape(c.Name)},
		},
	}
	if c.Atk != nil {
		card.Power = strPtr(strconv.Itoa(*c.Atk))
	}
	if c.Def != nil {
		card.Toughness = strPtr(strconv.Itoa(*c.Def))
	}
	if len(c.CardSets) > 0 {
		set := c.CardSets[0]
		card.SetCode = set.SetCode
		card.SetName = set.SetName
		card.CollectorNumber = set.SetCode
		if set.SetRarity != "" {
			card.Rarity = set.SetRarity
		}
	}
	if len(c.CardImages) > 0 {
		card.ImageURL = c.CardImages[0].ImageURL
	}
	return card
}
