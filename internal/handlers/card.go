// internal/handlers/card.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/javajoker/cardshop/internal/i18n"
	"github.com/javajoker/cardshop/internal/services"
	"github.com/javajoker/cardshop/internal/utils"
)

type CardHandler struct {
	cardService    *services.CardService
	priceService   *services.PriceService
	defaultCeiling decimal.Decimal
}

func NewCardHandler(cardService *services.CardService, priceService *services.PriceService, defaultCeiling decimal.Decimal) *CardHandler {
	return &CardHandler{
		cardService:    cardService,
		priceService:   priceService,
		defaultCeiling: defaultCeiling,
	}
}

// cardQuery reads the catalog filters shared by the public and admin listings.
func cardQuery(c *gin.Context) (services.CardQuery, bool) {
	params := utils.GetPageParams(c)
	q := services.CardQuery{
		Name:      c.Query("name"),
		Rarity:    c.Query("rarity"),
		SetCode:   c.Query("set_code"),
		Colors:    c.Query("colors"),
		SortBy:    c.DefaultQuery("sort_by", "name"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
		Limit:     params.Limit,
		Offset:    params.Offset,
	}

	var ok bool
	if q.MinPrice, ok = decimalQuery(c, "min_price"); !ok {
		return q, false
	}
	if q.MaxPrice, ok = decimalQuery(c, "max_price"); !ok {
		return q, false
	}
	return q, true
}

// GET /cards
func (h *CardHandler) SearchCards(c *gin.Context) {
	q, ok := cardQuery(c)
	if !ok {
		return
	}

	page, err := h.cardService.SearchCards(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PageResponse(c, page.Cards, page.Meta)
}

// GET /cards/:id
func (h *CardHandler) GetCard(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, card)
}

// GET /cards/external/:externalId
func (h *CardHandler) GetCardByExternalID(c *gin.Context) {
	card, err := h.cardService.GetCardByExternalID(c.Request.Context(), c.Param("externalId"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, card)
}

// GET /cards/suggest?q=
func (h *CardHandler) Suggest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	cards, err := h.cardService.Suggest(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, cards)
}

// GET /cards/:id/prices
func (h *CardHandler) GetPrices(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	prices, err := h.priceService.LatestByRetailer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, prices)
}

// GET /cards/:id/prices/cheapest
func (h *CardHandler) GetCheapestPrice(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	cheapest, err := h.priceService.Cheapest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if cheapest == nil {
		utils.SuccessResponse(c, gin.H{
			"cheapest": nil,
			"message":  i18n.T(lang, i18n.KeyCardNoPrices),
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cheapest": cheapest,
	})
}

// GET /search/external?name=&max_price=&game=
func (h *CardHandler) SearchExternal(c *gin.Context) {
	ceiling := h.defaultCeiling
	raw := c.Query("max_price")
	if raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			lang := utils.GetLangFromContext(c)
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "max_price"), nil)
			return
		}
		ceiling = d
	}

	cards, err := h.cardService.SearchExternal(c.Request.Context(), c.Query("name"), ceiling, c.DefaultQuery("game", "mtg"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, cards)
}
