// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/cardshop/internal/i18n"
	"github.com/javajoker/cardshop/internal/services"
	"github.com/javajoker/cardshop/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// POST /orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyOrderCreated),
		"order":         result.Order,
		"client_secret": result.ClientSecret,
	})
}

// GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, meta, err := h.orderService.ListOrders(c.Request.Context(), userID, utils.GetPageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PageResponse(c, orders, meta)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}
