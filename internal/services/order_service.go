// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/models"
	"github.com/javajoker/cardshop/internal/utils"
)

type OrderService struct {
	db       *gorm.DB
	payments PaymentGateway
	now      func() time.Time
}

type CheckoutRequest struct {
	ShippingAddress map[string]interface{} `json:"shipping_address" validate:"required"`
	ShippingMethod  string                 `json:"shipping_method" validate:"required,max=50"`
	Notes           string                 `json:"notes,omitempty" validate:"max=2000"`
}

type CheckoutResult struct {
	Order        *models.Order `json:"order"`
	ClientSecret string        `json:"client_secret,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status         models.OrderStatus `json:"status" validate:"required"`
	TrackingNumber string             `json:"tracking_number,omitempty" validate:"max=100"`
}

type OrderFilter struct {
	Status models.OrderStatus
	utils.PageParams
}

// NewOrderService accepts a nil gateway; checkout then skips payment.
func NewOrderService(db *gorm.DB, payments PaymentGateway) *OrderService {
	return &OrderService{
		db:       db,
		payments: payments,
		now:      time.Now,
	}
}

// Checkout turns the user's cart into a pending order. The order, its
// frozen items and the emptied cart commit together; a payment failure
// rolls everything back.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req *CheckoutRequest) (*CheckoutResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	result := &CheckoutResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("created_at ASC").Find(&items).Error; err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		number, err := utils.GenerateOrderNumber(s.now())
		if err != nil {
			return fmt.Errorf("failed to generate order number: %w", err)
		}

		order := &models.Order{
			UserID:          userID,
			OrderNumber:     number,
			TotalAmount:     cartTotal(items),
			Status:          models.OrderStatusPending,
			ShippingAddress: models.JSONB(req.ShippingAddress),
			ShippingMethod:  req.ShippingMethod,
			Notes:           strings.TrimSpace(req.Notes),
		}
		for _, item := range items {
			order.Items = append(order.Items, models.OrderItem{
				CardID:       item.CardID,
				Quantity:     item.Quantity,
				PricePerCard: item.PriceAtAddTime,
			})
		}

		if s.payments != nil {
			intent, err := s.payments.CreatePaymentIntent(ctx, order.TotalAmount, map[string]string{
				"user_id":      userID.String(),
				"order_number": number,
			})
			if err != nil {
				return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
			}
			order.StripePaymentIntentID = intent.ID
			result.ClientSecret = intent.ClientSecret
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"component":    "orders",
		"order_number": result.Order.OrderNumber,
		"total":        result.Order.TotalAmount.StringFixed(2),
	}).Info("Order created")
	return result, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, page utils.PageParams) ([]models.Order, utils.PageMeta, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	return s.listOrders(query, page)
}

// ListAllOrders is the admin view; an empty status matches every order.
func (s *OrderService) ListAllOrders(ctx context.Context, filter OrderFilter) ([]models.Order, utils.PageMeta, error) {
	query := s.db.WithContext(ctx)
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, utils.PageMeta{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
		}
		query = query.Where("status = ?", filter.Status)
	}
	return s.listOrders(query, filter.PageParams)
}

func (s *OrderService) listOrders(query *gorm.DB, page utils.PageParams) ([]models.Order, utils.PageMeta, error) {
	if page.Limit <= 0 || page.Limit > utils.MaxLimit {
		page.Limit = utils.DefaultLimit
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Preload("Items.Card").
		Order("created_at DESC").
		Limit(page.Limit + 1).
		Offset(page.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, utils.PageMeta{}, fmt.Errorf("failed to list orders: %w", err)
	}

	meta := utils.PageMeta{Limit: page.Limit, Offset: page.Offset, HasMore: len(orders) > page.Limit}
	if meta.HasMore {
		orders = orders[:page.Limit]
	}
	return orders, meta, nil
}

// GetOrder returns the order only when userID owns it.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Card").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// UpdateStatus moves an order along pending -> paid -> shipped -> delivered,
// or to cancelled from pending or paid.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}
		if !order.Status.CanTransitionTo(req.Status) {
			return &StatusTransitionError{From: order.Status, To: req.Status}
		}

		updates := map[string]interface{}{"status": req.Status}
		if req.TrackingNumber != "" {
			updates["tracking_number"] = req.TrackingNumber
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		order.Status = req.Status
		if req.TrackingNumber != "" {
			order.TrackingNumber = req.TrackingNumber
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}
