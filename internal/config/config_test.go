package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "APP_PORT", "CORS_ALLOWED_ORIGINS", "DATA_SOURCE", "PRODUCTION_VIEW", "GOALS_VIEW",
	"QUERY_CACHE_TTL", "SUPABASE_URL", "SUPABASE_KEY", "SUPABASE_PAGE_SIZE", "GOOGLE_SHEETS_CREDENTIALS_PATH",
	"GOOGLE_SHEET_DATABASE_ID", "REPORT_ENABLED", "REPORT_CRON_SCHEDULE", "TIMEZONE", "WHATSAPP_TOKEN",
	"WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_REPORT_RECIPIENT",
	"MONGODB_URI", "MONGODB_DB_NAME", "PRODUCTION_ORDER", "GOALS_ORDER",
}

// clearEnv blanks every key so values from the host do not leak into the test.
func clearEnv(t *testing.T) {
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func writeEnvFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, SourceSupabase, cfg.Source.Kind)
	assert.Equal(t, "view_dashboard", cfg.Source.ProductionView)
	assert.Equal(t, "view_consolidado_manutencao", cfg.Source.GoalsView)
	assert.Equal(t, 60*time.Second, cfg.Source.CacheTTL)
	assert.Equal(t, 1000, cfg.Supabase.PageSize)
	assert.Equal(t, "date.asc,equipment_tag.asc,shift_name.asc", cfg.Supabase.Order["view_dashboard"])
	assert.Equal(t, "area.asc,maintenance_type.asc", cfg.Supabase.Order["view_consolidado_manutencao"])
	assert.True(t, cfg.Reporting.Enabled)
	assert.Equal(t, "0 7 * * *", cfg.Reporting.CronSchedule)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.False(t, cfg.MongoDB.Enabled())
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("DATA_SOURCE")
	os.Unsetenv("GOOGLE_SHEETS_CREDENTIALS_PATH")
	os.Unsetenv("GOOGLE_SHEET_DATABASE_ID")
	os.Unsetenv("CORS_ALLOWED_ORIGINS")
	path := writeEnvFile(t, "DATA_SOURCE=sheets\nGOOGLE_SHEETS_CREDENTIALS_PATH=/tmp/creds.json\nGOOGLE_SHEET_DATABASE_ID=abc\nCORS_ALLOWED_ORIGINS=http://a, http://b\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SourceSheets, cfg.Source.Kind)
	assert.Equal(t, "abc", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "key")

	t.Setenv("QUERY_CACHE_TTL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "QUERY_CACHE_TTL")

	t.Setenv("QUERY_CACHE_TTL", "")
	t.Setenv("REPORT_ENABLED", "maybe")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "REPORT_ENABLED")
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080"},
		Source:    SourceConfig{Kind: SourceSupabase, ProductionView: "p", GoalsView: "g", CacheTTL: time.Minute},
		Supabase:  SupabaseConfig{URL: "https://x", Key: "k"},
		Reporting: ReportingConfig{Enabled: true, CronSchedule: "0 7 * * *", Timezone: "UTC"},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := map[string]func(c *Config){
		"SUPABASE_URL":              func(c *Config) { c.Supabase.URL = "" },
		"SUPABASE_KEY":              func(c *Config) { c.Supabase.Key = "" },
		"GOOGLE_SHEETS_CREDENTIALS": func(c *Config) { c.Source.Kind = SourceSheets },
		"not supported":             func(c *Config) { c.Source.Kind = "mysql" },
		"GOALS_VIEW":                func(c *Config) { c.Source.GoalsView = "" },
		"REPORT_CRON_SCHEDULE":      func(c *Config) { c.Reporting.CronSchedule = "" },
		"TIMEZONE":                  func(c *Config) { c.Reporting.Timezone = "Mars/Olympus" },
		"MONGODB_DB_NAME":           func(c *Config) { c.MongoDB.URI = "mongodb://localhost" },
		"APP_PORT":                  func(c *Config) { c.Server.Port = "" },
	}

	for want, mutate := range cases {
		cfg := validConfig()
		mutate(cfg)
		assert.ErrorContains(t, cfg.Validate(), want)
	}

	disabled := validConfig()
	disabled.Reporting.Enabled = false
	disabled.Reporting.CronSchedule = ""
	assert.NoError(t, disabled.Validate())

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
