package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Supported data sources.
const (
	SourceSupabase = "supabase"
	SourceSheets   = "sheets"
)

// Config represents the full application configuration surface.
type Config struct {
	Env       string
	Server    ServerConfig
	Source    SourceConfig
	Supabase  SupabaseConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	WhatsApp  WhatsAppConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// SourceConfig selects where raw rows come from and how long query results are memoized.
type SourceConfig struct {
	Kind           string
	ProductionView string
	GoalsView      string
	CacheTTL       time.Duration
}

// SupabaseConfig contains the hosted PostgREST endpoint and key. Order maps a
// view to the PostgREST order clause used to page it.
type SupabaseConfig struct {
	URL      string
	Key      string
	PageSize int
	Order    map[string]string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	Enabled      bool
	CronSchedule string
	Timezone     string
}

// WhatsAppConfig contains credentials for delivering the daily summary. Delivery is optional.
type WhatsAppConfig struct {
	AccessToken     string
	PhoneNumberID   string
	BaseURL         string
	APIVersion      string
	ReportRecipient string
}

// Enabled reports whether enough is configured to send messages.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.ReportRecipient != ""
}

// MongoDBConfig holds the report archive settings. An empty URI disables archiving.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether the archive should be used.
func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
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
		// Missing .env files are fine when configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cacheTTL, err := time.ParseDuration(getenvWithDefault("QUERY_CACHE_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("QUERY_CACHE_TTL: %w", err)
	}

	reportEnabled, err := strconv.ParseBool(getenvWithDefault("REPORT_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("REPORT_ENABLED: %w", err)
	}

	pageSize, err := strconv.Atoi(getenvWithDefault("SUPABASE_PAGE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("SUPABASE_PAGE_SIZE: %w", err)
	}

	productionView := getenvWithDefault("PRODUCTION_VIEW", "view_dashboard")
	goalsView := getenvWithDefault("GOALS_VIEW", "view_consolidado_manutencao")

	cfg := &Config{
		Env: getenvWithDefault("APP_ENV", "prod"),
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		},
		Source: SourceConfig{
			Kind:           strings.ToLower(getenvWithDefault("DATA_SOURCE", SourceSupabase)),
			ProductionView: productionView,
			GoalsView:      goalsView,
			CacheTTL:       cacheTTL,
		},
		Supabase: SupabaseConfig{
			URL:      os.Getenv("SUPABASE_URL"),
			Key:      os.Getenv("SUPABASE_KEY"),
			PageSize: pageSize,
			Order: map[string]string{
				productionView: getenvWithDefault("PRODUCTION_ORDER", "date.asc,equipment_tag.asc,shift_name.asc"),
				goalsView:      getenvWithDefault("GOALS_ORDER", "area.asc,maintenance_type.asc"),
			},
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			Enabled:      reportEnabled,
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 7 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:     os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:   os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:         getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:      getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ReportRecipient: os.Getenv("WHATSAPP_REPORT_RECIPIENT"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "hxreport"),
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

	switch c.Source.Kind {
	case SourceSupabase:
		switch {
		case c.Supabase.URL == "":
			return errors.New("SUPABASE_URL must be provided")
		case c.Supabase.Key == "":
			return errors.New("SUPABASE_KEY must be provided")
		}
	case SourceSheets:
		switch {
		case c.Sheets.CredentialsPath == "":
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		case c.Sheets.SpreadsheetID == "":
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
	default:
		return fmt.Errorf("DATA_SOURCE %q is not supported", c.Source.Kind)
	}

	if c.Source.ProductionView == "" || c.Source.GoalsView == "" {
		return errors.New("PRODUCTION_VIEW and GOALS_VIEW must not be empty")
	}

	if c.Source.CacheTTL < 0 {
		return errors.New("QUERY_CACHE_TTL must not be negative")
	}

	if c.Reporting.Enabled && c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	return nil
}

// Location returns the reporting timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reporting.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
