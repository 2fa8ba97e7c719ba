// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/cardshop/internal/i18n"
	"github.com/javajoker/cardshop/internal/services"
	"github.com/javajoker/cardshop/internal/utils"
)

type CartHandler struct {
	cartService     *services.CartService
	wishlistService *services.WishlistService
}

func NewCartHandler(cartService *services.CartService, wishlistService *services.WishlistService) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		wishlistService: wishlistService,
	}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, cart)
}

// POST /cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.cartService.AddToCart(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemAdded),
		"item":    item,
	})
}

// DELETE /cart/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.cartService.RemoveFromCart(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemRemoved),
	})
}

// GET /wishlist
func (h *CartHandler) GetWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := h.wishlistService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, items)
}

// POST /wishlist/:cardId
func (h *CartHandler) AddToWishlist(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := uuidParam(c, "cardId")
	if !ok {
		return
	}

	item, err := h.wishlistService.Add(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWishlistAdded),
		"item":    item,
	})
}

// DELETE /wishlist/:cardId
func (h *CartHandler) RemoveFromWishlist(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := uuidParam(c, "cardId")
	if !ok {
		return
	}

	if err := h.wishlistService.Remove(c.Request.Context(), userID, cardID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWishlistRemoved),
	})
}
