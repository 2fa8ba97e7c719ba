// internal/sources/pokemontcg.go
package sources

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	pokemonPlaceholderPrice = "3.00"
	pokemonScore            = "1.0"
)

type pokemonMarket struct {
	Market *float64 `json:"market"`
}

type pokemonCard struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Supertype           string   `json:"supertype"`
	Subtypes            []string `json:"subtypes"`
	HP                  string   `json:"hp"`
	ConvertedEnergyCost *float64 `json:"convertedEnergyCost"`
	Abilities           []struct {
		Name string `json:"name"`
		Text string `json:"text"`
	} `json:"abilities"`
	Rules  []string `json:"rules"`
	Rarity string   `json:"rarity"`
	Number string   `json:"number"`
	Set    struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ReleaseDate string `json:"releaseDate"`
	} `json:"set"`
	Images struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"images"`
	TCGPlayer *struct {
		URL    string `json:"url"`
		Prices struct {
			Normal   *pokemonMarket `json:"normal"`
			Holofoil *pokemonMarket `json:"holofoil"`
		} `json:"prices"`
	} `json:"tcgplayer"`
}

type pokemonList struct {
	Data *[]pokemonCard `json:"data"`
}

type PokemonTCGAdapter struct {
	client     *httpClient
	baseURL    string
	apiKey     string
	maxResults int
}

func (a *PokemonTCGAdapter) Name() string { return "pokemontcg" }

// Search applies the ceiling only to records carrying a real market price.
func (a *PokemonTCGAdapter) Search(ctx context.Context, name string, ceiling decimal.Decimal) ([]NormalizedCard, error) {
	searchURL := a.baseURL + "/cards?q=name:" + url.QueryEscape(name) + "*"

	var headers map[string]string
	if a.apiKey != "" {
		headers = map[string]string{"X-Api-Key": a.apiKey}
	}

	var list pokemonList
	if err := a.client.getJSON(ctx, searchURL, headers, &list); err != nil {
		return nil, err
	}
	if list.Data == nil {
		return []NormalizedCard{}, nil
	}

	cards := make([]NormalizedCard, 0, a.maxResults)
	for _, c := range *list.Data {
		card, placeholder := c.normalize()
		if !placeholder && !withinCeiling(card.PriceUSD, ceiling) {
			continue
		}
		cards = append(cards, card)
		if len(cards) == a.maxResults {
			break
		}
	}
	return cards, nil
}

// market treats a zero market price as missing.
func market(m *pokemonMarket) *string {
	if m == nil || m.Market == nil || *m.Market == 0 {
		return nil
	}
	return strPtr(strconv.FormatFloat(*m.Market, 'f', -1, 64))
}

// normalize reports whether the price is the placeholder.
func (c pokemonCard) normalize() (NormalizedCard, bool) {
	card := NormalizedCard{
		ExternalID:       "pokemon-" + c.ID,
		Game:             GamePokemon,
		Name:             c.Name,
		TypeLine:         c.Supertype,
		Rarity:           c.Rarity,
		SetCode:          c.Set.ID,
		SetName:          c.Set.Name,
		CollectorNumber:  c.Number,
		ReleaseDate:      c.Set.ReleaseDate,
		ImageURL:         c.Images.Large,
		Power:            nonEmpty(&c.HP),
		CostBenefitScore: pokemonScore,
		Keywords:         []string{},
		Legalities:       map[string]interface{}{},
	}
	if card.Rarity == "" {
		card.Rarity = "common"
	}
	if card.ImageURL == "" {
		card.ImageURL = c.Images.Small
	}
	if c.ConvertedEnergyCost != nil {
		card.CMC = *c.ConvertedEnergyCost
		card.ManaCost = strconv.FormatFloat(*c.ConvertedEnergyCost, 'f', -1, 64)
	}
	if c.Supertype == "Pokémon" {
		card.TypeLine = c.Supertype + " - " + strings.Join(c.Subtypes, " ")
	}

	if len(c.Abilities) > 0 {
		lines := make([]string, 0, len(c.Abilities))
		for _, ab := range c.Abilities {
			lines = append(lines, ab.Name+": "+ab.Text)
		}
		card.OracleText = strings.Join(lines, "\n")
	} else {
		card.OracleText = strings.Join(c.Rules, "\n")
	}

	tcgURL := "https://www.tcgplayer.com/search/pokemon/product?productLineName=pokemon&q=" + url.QueryEscape(c.Name)
	placeholder := true
	if c.TCGPlayer != nil {
		if c.TCGPlayer.URL != "" {
			tcgURL = c.TCGPlayer.URL
		}
		card.PriceUSD = market(c.TCGPlayer.Prices.Normal)
		if card.PriceUSD == nil {
			card.PriceUSD = market(c.TCGPlayer.Prices.Holofoil)
		}
		card.PriceFoil = market(c.TCGPlayer.Prices.Holofoil)
		placeholder = card.PriceUSD == nil
	}
	if placeholder {
		card.PriceUSD = strPtr(pokemonPlaceholderPrice)
	}

	card.PurchaseLinks = []PurchaseLink{
		{Rank: LinkPrimary, Retailer: "tcgplayer", URL: tcgURL},
		{Rank: LinkSecondary, Retailer: "cardmarket", URL: "https://www.cardmarket.com/en/Pokemon/Products/Search?searchString=" + url.QueryEscape(c.Name)},
	}
	return card, placeholder
}
