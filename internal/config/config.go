package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Cache     CacheConfig
	Sheets    SheetsConfig
	Notify    NotifyConfig
	Reporting ReportingConfig
	Costing   CostingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// CacheConfig holds settings for the redis catalog cache. An empty Addr
// disables caching.
type CacheConfig struct {
	Addr string
	TTL  time.Duration
}

// SheetsConfig contains configuration required to mirror the costing ledger
// into Google Sheets. Empty values disable the mirror.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// NotifyConfig contains the back-office webhook settings. An empty URL
// disables notifications.
type NotifyConfig struct {
	WebhookURL string
	AuthToken  string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	SummaryCronSchedule  string
	LowStockCronSchedule string
	Timezone             string
}

// CostingConfig selects the conversion behavior for units the calculator
// cannot map faithfully: "permissive" passes quantities through, "strict"
// rejects.
type CostingConfig struct {
	Mode string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cacheTTL, err := parseDurationWithDefault("CATALOG_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "recipecost"),
		},
		Cache: CacheConfig{
			Addr: os.Getenv("REDIS_ADDR"),
			TTL:  cacheTTL,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_LEDGER_ID"),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("BACKOFFICE_WEBHOOK_URL"),
			AuthToken:  os.Getenv("BACKOFFICE_WEBHOOK_TOKEN"),
		},
		Reporting: ReportingConfig{
			SummaryCronSchedule:  getenvWithDefault("SUMMARY_CRON_SCHEDULE", "0 22 * * *"),
			LowStockCronSchedule: getenvWithDefault("LOW_STOCK_CRON_SCHEDULE", "0 6 * * *"),
			Timezone:             getenvWithDefault("TIMEZONE", "UTC"),
		},
		Costing: CostingConfig{
			Mode: getenvWithDefault("COSTING_MODE", "permissive"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	switch c.Costing.Mode {
	case "permissive", "strict":
	default:
		return fmt.Errorf("COSTING_MODE must be permissive or strict, got %q", c.Costing.Mode)
	}

	// Sheets credentials come as a pair: either both set or both empty.
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_LEDGER_ID must be provided together")
	}

	if c.Reporting.SummaryCronSchedule == "" {
		return errors.New("SUMMARY_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.LowStockCronSchedule == "" {
		return errors.New("LOW_STOCK_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

// LedgerEnabled reports whether the Google Sheets costing ledger mirror is configured.
func (c *Config) LedgerEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

// NotifyEnabled reports whether the back-office webhook is configured.
func (c *Config) NotifyEnabled() bool {
	return c.Notify.WebhookURL != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseDurationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return parsed, nil
}
