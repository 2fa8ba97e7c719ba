// internal/sources/card.go
package sources

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/javajoker/cardshop/internal/models"
)

// LinkRank orders purchase links from most to least preferred.
type LinkRank int

const (
	LinkPrimary LinkRank = iota + 1
	LinkSecondary
	LinkDetail
)

type PurchaseLink struct {
	Rank     LinkRank `json:"rank"`
	Retailer string   `json:"retailer"`
	URL      string   `json:"url"`
}

// NormalizedCard is the provider-independent shape every adapter produces.
type NormalizedCard struct {
	ExternalID       string                 `json:"external_id"`
	Game             Game                   `json:"game"`
	Name             string                 `json:"name"`
	ManaCost         string                 `json:"mana_cost"`
	CMC              float64                `json:"cmc"`
	TypeLine         string                 `json:"type_line"`
	OracleText       string                 `json:"oracle_text"`
	Power            *string                `json:"power"`
	Toughness        *string                `json:"toughness"`
	Colors           string                 `json:"colors"`
	ColorIdentity    string                 `json:"color_identity"`
	Rarity           string                 `json:"rarity"`
	SetCode          string                 `json:"set_code"`
	SetName          string                 `json:"set_name"`
	CollectorNumber  string                 `json:"collector_number"`
	ReleaseDate      string                 `json:"release_date"`
	ImageURL         string                 `json:"image_url"`
	PriceUSD         *string                `json:"price_usd"`
	PriceEUR         *string                `json:"price_eur"`
	PriceFoil        *string                `json:"price_foil"`
	CostBenefitScore string                 `json:"cost_benefit_score"`
	EDHRECRank       *int                   `json:"edhrec_rank"`
	Keywords         []string               `json:"keywords"`
	Legalities       map[string]interface{} `json:"legalities"`
	PurchaseLinks    []PurchaseLink         `json:"purchase_links"`
}

// BestLink returns the highest ranked purchase link, if any.
func (c NormalizedCard) BestLink() (PurchaseLink, bool) {
	var best PurchaseLink
	found := false
	for _, l := range c.PurchaseLinks {
		if !found || l.Rank < best.Rank {
			best, found = l, true
		}
	}
	return best, found
}

// Card converts the record into a catalog row ready for upsert.
func (c NormalizedCard) Card() *models.Card {
	card := &models.Card{
		ExternalID:       c.ExternalID,
		Game:             string(c.Game),
		Name:             c.Name,
		ManaCost:         c.ManaCost,
		CMC:              c.CMC,
		TypeLine:         c.TypeLine,
		OracleText:       c.OracleText,
		Power:            c.Power,
		Toughness:        c.Toughness,
		Colors:           c.Colors,
		ColorIdentity:    c.ColorIdentity,
		Rarity:           c.Rarity,
		SetCode:          c.SetCode,
		SetName:          c.SetName,
		CollectorNumber:  c.CollectorNumber,
		ReleaseDate:      c.ReleaseDate,
		ImageURL:         c.ImageURL,
		PriceUSD:         nullDecimal(c.PriceUSD),
		PriceEUR:         nullDecimal(c.PriceEUR),
		PriceFoil:        nullDecimal(c.PriceFoil),
		CostBenefitScore: nullDecimal(&c.CostBenefitScore),
		EDHRECRank:       c.EDHRECRank,
		Keywords:         models.StringArray(c.Keywords),
	}
	if c.Legalities != nil {
		card.Legalities = models.JSONB(c.Legalities)
	}
	return card
}

func nullDecimal(s *string) decimal.NullDecimal {
	if s == nil || strings.TrimSpace(*s) == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func strPtr(s string) *string {
	return &s
}

// nonEmpty maps "" and nil to nil.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
