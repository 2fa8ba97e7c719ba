// internal/services/admin_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/models"
)

type AdminService struct {
	db *gorm.DB
}

type AdminDashboardStats struct {
	TotalUsers        int64                        `json:"total_users"`
	NewUsersThisMonth int64                        `json:"new_users_this_month"`
	TotalCards        int64                        `json:"total_cards"`
	PricedCards       int64                        `json:"priced_cards"`
	StalePriceCards   int64                        `json:"stale_price_cards"`
	PriceObservations int64                        `json:"price_observations"`
	OrdersByStatus    map[models.OrderStatus]int64 `json:"orders_by_status"`
	TotalRevenue      decimal.Decimal              `json:"total_revenue"`
	MonthlyRevenue    decimal.Decimal              `json:"monthly_revenue"`
}

// revenueStatuses are the order states that count as money received.
var revenueStatuses = []models.OrderStatus{
	models.OrderStatusPaid,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

// StalePriceAge marks a card's cached price as stale.
const StalePriceAge = 7 * 24 * time.Hour

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats(ctx context.Context) (*AdminDashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &AdminDashboardStats{OrdersByStatus: map[models.OrderStatus]int64{}}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// User statistics
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	// Catalog statistics
	db.Model(&models.Card{}).Count(&stats.TotalCards)
	db.Model(&models.Card{}).Where("cheapest_price_usd IS NOT NULL").Count(&stats.PricedCards)
	db.Model(&models.Card{}).
		Where("prices_refreshed_at IS NULL OR prices_refreshed_at < ?", now.Add(-StalePriceAge)).
		Count(&stats.StalePriceCards)
	db.Model(&models.PriceObservation{}).Count(&stats.PriceObservations)

	// Order statistics
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	for _, r := range rows {
		stats.OrdersByStatus[r.Status] = r.Count
	}

	// Revenue statistics
	err := db.Model(&models.Order{}).
		Where("status IN ?", revenueStatuses).
		Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	err = db.Model(&models.Order{}).
		Where("status IN ? AND created_at >= ?", revenueStatuses, monthStart).
		Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&stats.MonthlyRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum monthly revenue: %w", err)
	}

	return stats, nil
}
