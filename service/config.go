package service

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/bookbright/electryohype/internal/pricing"
	"github.com/bookbright/electryohype/internal/upload"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	DBPath      string

	Clerk struct {
		SecretKey string
	}

	Admin struct {
		PolicyPath     string
		ReloadInterval time.Duration
	}

	Import struct {
		Timeout           time.Duration
		RequestsPerMinute int
		ChromePath        string
		NavTimeout        time.Duration
	}

	Pricing pricing.Normalizer

	Upload struct {
		MaxSize int
		Dir     string
		BaseURL string
	}

	Supplier struct {
		APIURL       string
		APIKey       string
		Default      string
		PollInterval time.Duration
	}
}

// LoadConfig reads the environment, after loading .env when present.
// Malformed numbers and durations fall back to their defaults.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		DBPath:      getEnv("DB_PATH", "./db/electryohype.db"),
	}

	// Auth
	config.Clerk.SecretKey = getEnv("CLERK_SECRET_KEY", "")
	config.Admin.PolicyPath = getEnv("ADMIN_POLICY_PATH", "./config/admins.yaml")
	config.Admin.ReloadInterval = getDuration("ADMIN_POLICY_RELOAD", 30*time.Second)

	// Import
	config.Import.Timeout = getDuration("IMPORT_TIMEOUT", 60*time.Second)
	config.Import.RequestsPerMinute = getInt("IMPORT_REQUESTS_PER_MINUTE", 20)
	config.Import.ChromePath = getEnv("CHROME_PATH", "")
	config.Import.NavTimeout = getDuration("BROWSER_NAV_TIMEOUT", 30*time.Second)

	// Pricing
	config.Pricing = pricing.DefaultNormalizer()
	config.Pricing.USDRate = getDecimal("PRICING_USD_RATE", config.Pricing.USDRate)
	config.Pricing.Markup = getDecimal("PRICING_MARKUP", config.Pricing.Markup)
	config.Pricing.CompareAtMarkup = getDecimal("PRICING_COMPARE_AT_MARKUP", config.Pricing.CompareAtMarkup)

	// Upload
	config.Upload.MaxSize = getInt("UPLOAD_MAX_SIZE", upload.DefaultMaxSize)
	config.Upload.Dir = getEnv("UPLOAD_DIR", "./public/uploads")
	config.Upload.BaseURL = getEnv("UPLOAD_BASE_URL", "/public/uploads")

	// Supplier
	config.Supplier.APIURL = getEnv("SUPPLIER_API_URL", "https://api.supplier.example")
	config.Supplier.APIKey = getEnv("SUPPLIER_API_KEY", "")
	config.Supplier.Default = getEnv("SUPPLIER_DEFAULT", "temu")
	config.Supplier.PollInterval = getDuration("SUPPLIER_POLL_INTERVAL", 30*time.Minute)

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return d
}

func getDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		slog.Warn("invalid decimal in environment, using default", "key", key, "value", raw, "default", defaultValue.String())
		return defaultValue
	}
	return d
}
