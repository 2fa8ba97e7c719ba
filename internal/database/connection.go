// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/cardshop/internal/config"
	"github.com/javajoker/cardshop/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	// Order items outlive the cards they reference, so no FK constraints.
	gormConfig := &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("driver", db.Dialector.Name()).Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Card{},
		&models.PriceObservation{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	createIndexes(db)

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) {
	indexes := []string{
		// Card indexes
		"CREATE INDEX IF NOT EXISTS idx_cards_price_usd ON cards(price_usd)",
		"CREATE INDEX IF NOT EXISTS idx_cards_created_at ON cards(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_cards_game_name ON cards(game, name)",

		// Price history: latest-per-retailer scans
		"CREATE INDEX IF NOT EXISTS idx_price_history_card_retailer ON price_history(card_id, retailer, scraped_at DESC)",

		// Cart and order indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_user_card ON cart_items(user_id, card_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_card ON order_items(card_id)",
	}

	if db.Dialector.Name() == "postgres" {
		indexes = append(indexes,
			"CREATE INDEX IF NOT EXISTS idx_cards_search ON cards USING GIN(to_tsvector('english', name || ' ' || coalesce(type_line, '')))",
		)
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
