// internal/router/router.go
package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/config"
	"github.com/javajoker/cardshop/internal/handlers"
	"github.com/javajoker/cardshop/internal/middleware"
	"github.com/javajoker/cardshop/internal/scraper"
	"github.com/javajoker/cardshop/internal/services"
	"github.com/javajoker/cardshop/internal/sources"
)

// Services holds everything the HTTP layer and the background jobs share.
type Services struct {
	Auth        *services.AuthService
	Users       *services.UserService
	Cards       *services.CardService
	Prices      *services.PriceService
	PriceUpdate *services.PriceUpdateService
	Sync        *services.SyncService
	Carts       *services.CartService
	Wishlists   *services.WishlistService
	Orders      *services.OrderService
	Admin       *services.AdminService
	Storage     *services.StorageService
}

func NewServices(db *gorm.DB, cfg *config.Config) (*Services, error) {
	registry := sources.NewRegistry(cfg.Sources)
	searcher, err := sources.NewCachedSearcher(registry, cfg.Sources.CacheSize, time.Duration(cfg.Sources.CacheTTL)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to build search cache: %w", err)
	}

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// A nil *PaymentService must not reach the interface.
	var gateway services.PaymentGateway
	if p := services.NewPaymentService(cfg); p != nil {
		gateway = p
	}

	cards := services.NewCardService(db, searcher)
	prices := services.NewPriceService(db)
	cardDelay := time.Duration(cfg.Jobs.CardDelayMillis) * time.Millisecond
	syncDelay := time.Duration(cfg.Jobs.SyncDelayMillis) * time.Millisecond

	return &Services{
		Auth:        services.NewAuthService(db, cfg),
		Users:       services.NewUserService(db),
		Cards:       cards,
		Prices:      prices,
		PriceUpdate: services.NewPriceUpdateService(cards, prices, scraper.NewCollector(cfg.Scraper), cardDelay),
		Sync:        services.NewSyncService(cards, registry.Scryfall(), cfg.Jobs.SyncPages, syncDelay),
		Carts:       services.NewCartService(db),
		Wishlists:   services.NewWishlistService(db),
		Orders:      services.NewOrderService(db, gateway),
		Admin:       services.NewAdminService(db),
		Storage:     storageService,
	}, nil
}

func Initialize(ctx context.Context, db *gorm.DB, cfg *config.Config) (*gin.Engine, *Services, error) {
	svc, err := NewServices(db, cfg)
	if err != nil {
		return nil, nil, err
	}
	return New(ctx, cfg, svc), svc, nil
}

// New wires the handlers for svc onto a fresh engine. The rate limiter
// cleanup goroutines stop when ctx is done.
func New(ctx context.Context, cfg *config.Config, svc *Services) *gin.Engine {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc.Auth, svc.Users)
	cardHandler := handlers.NewCardHandler(svc.Cards, svc.Prices, decimal.NewFromFloat(cfg.Sources.DefaultCeiling))
	cartHandler := handlers.NewCartHandler(svc.Carts, svc.Wishlists)
	orderHandler := handlers.NewOrderHandler(svc.Orders)
	adminHandler := handlers.NewAdminHandler(svc.Admin, svc.Users, svc.Cards, svc.Orders, svc.PriceUpdate, svc.Sync, svc.Storage)

	generalLimiter := middleware.PerSecond(cfg.Server.RateLimit, cfg.Server.RateBurst)
	authLimiter := middleware.NewRateLimiter(rate.Every(12*time.Second), 5)   // 5 auth requests per minute
	uploadLimiter := middleware.NewRateLimiter(rate.Every(6*time.Second), 10) // 10 uploads per minute
	for _, rl := range []*middleware.RateLimiter{generalLimiter, authLimiter, uploadLimiter} {
		go rl.Run(ctx.Done())
	}

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(generalLimiter.Middleware())
	r.Use(middleware.AuditLogMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authLimiter.Middleware(), authHandler.Register)
			auth.POST("/login", authLimiter.Middleware(), authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Catalog routes
		cards := v1.Group("/cards")
		{
			cards.GET("", cardHandler.SearchCards)
			cards.GET("/suggest", cardHandler.Suggest)
			cards.GET("/external/:externalId", cardHandler.GetCardByExternalID)
			cards.GET("/:id", cardHandler.GetCard)
			cards.GET("/:id/prices", cardHandler.GetPrices)
			cards.GET("/:id/prices/cheapest", cardHandler.GetCheapestPrice)
		}

		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.GetCart)
			cart.POST("", cartHandler.AddToCart)
			cart.DELETE("/:id", cartHandler.RemoveFromCart)
		}

		wishlist := v1.Group("/wishlist")
		wishlist.Use(middleware.AuthRequired())
		{
			wishlist.GET("", cartHandler.GetWishlist)
			wishlist.POST("/:cardId", cartHandler.AddToWishlist)
			wishlist.DELETE("/:cardId", cartHandler.RemoveFromWishlist)
		}

		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("", orderHandler.ListOrders)
			orders.POST("/checkout", orderHandler.Checkout)
			orders.GET("/:id", orderHandler.GetOrder)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)
			admin.GET("/users", adminHandler.GetUsers)

			// Live provider search
			admin.GET("/search/external", cardHandler.SearchExternal)

			// Inventory management
			adminCards := admin.Group("/cards")
			{
				adminCards.GET("", adminHandler.GetInventory)
				adminCards.POST("", adminHandler.AddCard)
				adminCards.PUT("/:id/prices", adminHandler.UpdateCardPrices)
				adminCards.DELETE("/:id", adminHandler.DeleteCard)
				adminCards.POST("/:id/image", uploadLimiter.Middleware(), adminHandler.UploadCardImage)
				adminCards.POST("/:id/refresh-prices", adminHandler.RefreshCardPrices)
			}

			admin.POST("/sync", adminHandler.SyncCatalog)

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", adminHandler.GetOrders)
				adminOrders.PUT("/:id/status", adminHandler.UpdateOrderStatus)
			}
		}
	}

	// Local uploads are served by the API itself
	if svc.Storage != nil && svc.Storage.IsLocal() && strings.HasPrefix(cfg.AWS.LocalUploadURL, "/") && len(cfg.AWS.LocalUploadURL) > 1 {
		r.Static(cfg.AWS.LocalUploadURL, cfg.AWS.LocalUploadDir)
	}

	return r
}
