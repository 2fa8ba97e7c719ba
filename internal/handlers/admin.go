// internal/handlers/admin.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/cardshop/internal/i18n"
	"github.com/javajoker/cardshop/internal/models"
	"github.com/javajoker/cardshop/internal/services"
	"github.com/javajoker/cardshop/internal/sources"
	"github.com/javajoker/cardshop/internal/utils"
)

type AdminHandler struct {
	adminService       *services.AdminService
	userService        *services.UserService
	cardService        *services.CardService
	orderService       *services.OrderService
	priceUpdateService *services.PriceUpdateService
	syncService        *services.SyncService
	storageService     *services.StorageService
}

func NewAdminHandler(
	adminService *services.AdminService,
	userService *services.UserService,
	cardService *services.CardService,
	orderService *services.OrderService,
	priceUpdateService *services.PriceUpdateService,
	syncService *services.SyncService,
	storageService *services.StorageService,
) *AdminHandler {
	return &AdminHandler{
		adminService:       adminService,
		userService:        userService,
		cardService:        cardService,
		orderService:       orderService,
		priceUpdateService: priceUpdateService,
		syncService:        syncService,
		storageService:     storageService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, meta, err := h.userService.ListUsers(c.Request.Context(), utils.GetPageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PageResponse(c, users, meta)
}

// GET /admin/cards
func (h *AdminHandler) GetInventory(c *gin.Context) {
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

// POST /admin/cards
func (h *AdminHandler) AddCard(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req sources.NormalizedCard
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	card, err := h.cardService.ImportCard(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCardCreated),
		"card":    card,
	})
}

// PUT /admin/cards/:id/prices
func (h *AdminHandler) UpdateCardPrices(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePricesRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.UpdateCardPrices(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCardUpdated),
		"card":    card,
	})
}

// DELETE /admin/cards/:id
func (h *AdminHandler) DeleteCard(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	auditLog(c, "card.deleted", id.String(), "")
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCardDeleted),
	})
}

// POST /admin/cards/:id/image
func (h *AdminHandler) UploadCardImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "image"), nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadFile(file, header, services.CardImageOptions)
	if err != nil {
		if errors.Is(err, services.ErrFileTypeInvalid) || errors.Is(err, services.ErrFileTooLarge) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), err.Error())
			return
		}
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed))
		return
	}

	card, err := h.cardService.SetImageURL(c.Request.Context(), id, result.URL)
	if err != nil {
		h.storageService.DeleteFile(result.Key)
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"card":    card,
		"upload":  result,
	})
}

// POST /admin/cards/:id/refresh-prices
func (h *AdminHandler) RefreshCardPrices(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.priceUpdateService.RefreshCard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	message := i18n.T(lang, i18n.KeyCardPricesUpdated)
	if len(result.Recorded) == 0 {
		message = i18n.T(lang, i18n.KeyCardNoPrices)
	}
	utils.SuccessResponse(c, gin.H{
		"message": message,
		"result":  result,
	})
}

// POST /admin/sync
func (h *AdminHandler) SyncCatalog(c *gin.Context) {
	report, err := h.syncService.Sync(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, report)
}

// GET /admin/orders
func (h *AdminHandler) GetOrders(c *gin.Context) {
	filter := services.OrderFilter{
		Status:     models.OrderStatus(c.Query("status")),
		PageParams: utils.GetPageParams(c),
	}

	orders, meta, err := h.orderService.ListAllOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PageResponse(c, orders, meta)
}

// PUT /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	auditLog(c, "order.status_updated", order.ID.String(), string(order.Status))
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderStatusUpdated),
		"order":   order,
	})
}
