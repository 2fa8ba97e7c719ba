// cmd/cardctl/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/config"
	"github.com/javajoker/cardshop/internal/database"
	"github.com/javajoker/cardshop/internal/router"
	"github.com/javajoker/cardshop/internal/scraper"
	"github.com/javajoker/cardshop/internal/sources"
)

var (
	verbose bool

	setName  string
	maxPrice float64
	game     string
)

var rootCmd = &cobra.Command{
	Use:   "cardctl",
	Short: "Maintenance commands for the card shop catalog",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync-scryfall",
	Short: "Upsert catalog pages from the Scryfall bulk search",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(cfg *config.Config, svc *router.Services) error {
			report, err := svc.Sync.Sync(cmd.Context())
			if report != nil {
				printJSON(report)
			}
			return err
		})
	},
}

var updatePricesCmd = &cobra.Command{
	Use:   "update-prices [n]",
	Short: "Scrape retailer prices for the top n cards by cost-benefit score",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(cfg *config.Config, svc *router.Services) error {
			n := cfg.Jobs.PriceUpdateTopN
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed <= 0 {
					return fmt.Errorf("n must be a positive integer, got %q", args[0])
				}
				n = parsed
			}

			report, err := svc.PriceUpdate.UpdateTopCards(cmd.Context(), n)
			if report != nil {
				printJSON(report)
			}
			return err
		})
	},
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <card name>",
	Short: "Scrape every retailer for one card without touching the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		result, err := scraper.NewCollector(cfg.Scraper).GetAllPrices(cmd.Context(), args[0], setName)
		if err != nil {
			return err
		}
		printJSON(result)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <card name>",
	Short: "Query the external card providers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ceiling := decimal.NewFromFloat(cfg.Sources.DefaultCeiling)
		if maxPrice > 0 {
			ceiling = decimal.NewFromFloat(maxPrice)
		}

		cards, err := sources.NewRegistry(cfg.Sources).Search(cmd.Context(), args[0], ceiling, game)
		if err != nil {
			return err
		}
		printJSON(cards)
		return nil
	},
}

func withServices(run func(cfg *config.Config, svc *router.Services) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	svc, err := router.NewServices(db, cfg)
	if err != nil {
		return err
	}
	return run(cfg, svc)
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logrus.WithError(err).Error("Failed to encode output")
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	scrapeCmd.Flags().StringVar(&setName, "set", "", "Set name to narrow the retailer search")
	searchCmd.Flags().Float64Var(&maxPrice, "max-price", 0, "Price ceiling in USD (defaults to SOURCES_DEFAULT_MAX_PRICE)")
	searchCmd.Flags().StringVar(&game, "game", "mtg", "Game to search: mtg, yugioh or pokemon")

	rootCmd.AddCommand(syncCmd, updatePricesCmd, scrapeCmd, searchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
