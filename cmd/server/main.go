// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/javajoker/cardshop/internal/config"
	"github.com/javajoker/cardshop/internal/database"
	"github.com/javajoker/cardshop/internal/i18n"
	"github.com/javajoker/cardshop/internal/router"
	"github.com/javajoker/cardshop/internal/utils"
)

func setupLogging(cfg *config.Config) {
	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	setupLogging(cfg)
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize router
	r, svc, err := router.Initialize(ctx, db, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize router")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if cfg.Jobs.PriceUpdateInterval > 0 {
		interval := time.Duration(cfg.Jobs.PriceUpdateInterval) * time.Minute
		g.Go(func() error {
			logrus.WithFields(logrus.Fields{
				"interval": interval.String(),
				"top_n":    cfg.Jobs.PriceUpdateTopN,
			}).Info("Starting price update scheduler")
			return svc.PriceUpdate.Start(ctx, interval, cfg.Jobs.PriceUpdateTopN)
		})
	}

	// Wait for interrupt signal to gracefully shutdown the server
	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("Shutting down server...")

		// Create a deadline for shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("Server exited with error")
		database.Close(db)
		os.Exit(1)
	}

	logrus.Info("Server exited")
}
