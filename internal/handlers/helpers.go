// internal/handlers/helpers.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/cardshop/internal/i18n"
	"github.com/javajoker/cardshop/internal/services"
	"github.com/javajoker/cardshop/internal/utils"
)

// respondError maps service errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var transition *services.StatusTransitionError
	switch {
	case errors.As(err, &transition):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderInvalidStatus, transition.From, transition.To), nil)
	case errors.Is(err, services.ErrInvalidInput):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrCardNotFound):
		utils.NotFoundResponse(c, "card")
	case errors.Is(err, services.ErrCartItemNotFound):
		utils.NotFoundResponse(c, "cart")
	case errors.Is(err, services.ErrWishlistItemNotFound):
		utils.NotFoundResponse(c, "wishlist")
	case errors.Is(err, services.ErrOrderNotFound):
		utils.NotFoundResponse(c, "order")
	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, "user")
	case errors.Is(err, services.ErrEmptyCart):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartEmpty), nil)
	case errors.Is(err, services.ErrUserExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthUserExists))
	case errors.Is(err, services.ErrPaymentFailed):
		logrus.WithError(err).Warn("Payment intent failed")
		utils.ErrorResponse(c, http.StatusBadGateway, "PAYMENT_FAILED", i18n.T(lang, i18n.KeyPaymentFailed), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON binds and validates the request body, answering 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, name), nil)
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return userID, true
}

// decimalQuery parses an optional non-negative amount. ok is false after a
// 400 has been written.
func decimalQuery(c *gin.Context, key string) (*decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, key), nil)
		return nil, false
	}
	return &d, true
}

// auditLog records an admin action with the acting user attached.
func auditLog(c *gin.Context, action, resourceID, detail string) {
	userID, _ := utils.GetUserIDFromContext(c)
	logrus.WithFields(logrus.Fields{
		"component":   "audit",
		"action":      action,
		"resource_id": resourceID,
		"detail":      detail,
		"user_id":     userID,
	}).Info("Admin action")
}
