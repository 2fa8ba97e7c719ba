// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	AWS         AWSConfig
	Payment     PaymentConfig
	Sources     SourcesConfig
	Scraper     ScraperConfig
	Jobs        JobsConfig
	I18n        I18nConfig
	Admin       AdminConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	AllowedOrigins []string
	RateLimit      float64 // requests per second per client
	RateBurst      int
}

type DatabaseConfig struct {
	Driver       string // postgres or sqlite
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
	LocalUploadDir  string
	LocalUploadURL  string
}

type PaymentConfig struct {
	StripeSecretKey      string
	StripePublishableKey string
	Currency             string
}

// SourcesConfig drives the external card-data providers.
type SourcesConfig struct {
	ScryfallURL      string
	YGOProDeckURL    string
	PokemonTCGURL    string
	PokemonTCGAPIKey string
	UserAgent        string
	Timeout          int // in seconds
	MaxResults       int
	DefaultCeiling   float64
	CacheSize        int
	CacheTTL         int // in seconds
}

type ScraperConfig struct {
	TCGPlayerURL  string
	CardmarketURL string
	EbayURL       string
	UserAgent     string
	Timeout       int // in seconds
	DelayMillis   int // between retailers
	Headless      bool
}

type JobsConfig struct {
	PriceUpdateInterval int // in minutes, 0 disables the scheduler
	PriceUpdateTopN     int
	CardDelayMillis     int
	SyncPages           int
	SyncDelayMillis     int
}

type I18nConfig struct {
	DefaultLocale string
}

type AdminConfig struct {
	Emails []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	userAgent := getEnv("HTTP_USER_AGENT", "MTGCardShop/1.0")

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Host:           getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:    getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:    getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			RateLimit:      getEnvAsFloat("RATE_LIMIT_RPS", 10),
			RateBurst:      getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "postgres"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "cardshop"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:   getEnv("DB_SQLITE_PATH", "cardshop.db"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 24), // 24 hours
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "cardshop-images"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
			LocalUploadDir:  getEnv("LOCAL_UPLOAD_DIR", "./uploads"),
			LocalUploadURL:  getEnv("LOCAL_UPLOAD_URL", "/uploads"),
		},
		Payment: PaymentConfig{
			StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			Currency:             getEnv("PAYMENT_CURRENCY", "usd"),
		},
		Sources: SourcesConfig{
			ScryfallURL:      getEnv("SCRYFALL_API_URL", "https://api.scryfall.com"),
			YGOProDeckURL:    getEnv("YGOPRODECK_API_URL", "https://db.ygoprodeck.com/api/v7"),
			PokemonTCGURL:    getEnv("POKEMONTCG_API_URL", "https://api.pokemontcg.io/v2"),
			PokemonTCGAPIKey: getEnv("POKEMONTCG_API_KEY", ""),
			UserAgent:        userAgent,
			Timeout:          getEnvAsInt("SOURCES_TIMEOUT", 15),
			MaxResults:       getEnvAsInt("SOURCES_MAX_RESULTS", 20),
			DefaultCeiling:   getEnvAsFloat("SOURCES_DEFAULT_MAX_PRICE", 100),
			CacheSize:        getEnvAsInt("SOURCES_CACHE_SIZE", 256),
			CacheTTL:         getEnvAsInt("SOURCES_CACHE_TTL", 300),
		},
		Scraper: ScraperConfig{
			TCGPlayerURL:  getEnv("SCRAPER_TCGPLAYER_URL", "https://www.tcgplayer.com"),
			CardmarketURL: getEnv("SCRAPER_CARDMARKET_URL", "https://www.cardmarket.com"),
			EbayURL:       getEnv("SCRAPER_EBAY_URL", "https://www.ebay.com"),
			UserAgent:     userAgent,
			Timeout:       getEnvAsInt("SCRAPER_TIMEOUT", 20),
			DelayMillis:   getEnvAsInt("SCRAPER_DELAY_MS", 500),
			Headless:      getEnvAsBool("SCRAPER_HEADLESS", false),
		},
		Jobs: JobsConfig{
			PriceUpdateInterval: getEnvAsInt("PRICE_UPDATE_INTERVAL_MINUTES", 0),
			PriceUpdateTopN:     getEnvAsInt("PRICE_UPDATE_TOP_N", 100),
			CardDelayMillis:     getEnvAsInt("PRICE_UPDATE_CARD_DELAY_MS", 2000),
			SyncPages:           getEnvAsInt("SYNC_MAX_PAGES", 5),
			SyncDelayMillis:     getEnvAsInt("SYNC_DELAY_MS", 100),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		Admin: AdminConfig{
			Emails: getEnvAsList("ADMIN_EMAILS", nil),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Driver == "postgres" && c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Sources.DefaultCeiling <= 0 {
		return fmt.Errorf("default max price must be positive")
	}

	if c.Jobs.PriceUpdateInterval < 0 {
		return fmt.Errorf("price update interval cannot be negative")
	}

	return nil
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.Admin.Emails {
		if strings.EqualFold(e, strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
