package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/globalcontainerexchange/gce-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"APP_ENV":          "",
		"PORT":             "",
		"DATABASE_URL":     "",
		"REDIS_URL":        "",
		"CATALOG_PATH":     "",
		"CURRENCY_CODE":    "",
		"QUOTE_RATE_LIMIT": "",
		"CATALOG_WATCH":    "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Empty(t, cfg.DatabaseURL)
	require.Empty(t, cfg.CatalogPath)
	require.True(t, cfg.CatalogWatch)
	require.Equal(t, "USD", cfg.CurrencyCode)
	require.Equal(t, 120, cfg.QuoteRateLimit)
	require.Equal(t, time.Minute, cfg.QuoteRateWindow)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	require.Equal(t, int64(64<<10), cfg.BodyLimitBytes)
	require.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"APP_ENV":                    "production",
		"PORT":                       ":9090",
		"CATALOG_PATH":               "/etc/gce/catalog.csv",
		"CATALOG_WATCH":              "off",
		"ADMIN_TOKEN":                "0123456789abcdef",
		"CURRENCY_CODE":              "cad",
		"CORS_ALLOWED_ORIGINS":       "https://a.example, https://b.example,",
		"QUOTE_RATE_LIMIT":           "30",
		"QUOTE_RATE_WINDOW":          "30s",
		"IDEMPOTENCY_TTL":            "bogus",
		"OBS_TRACING_SAMPLING_RATIO": "0.25",
	})
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "/etc/gce/catalog.csv", cfg.CatalogPath)
	require.False(t, cfg.CatalogWatch)
	require.Equal(t, "CAD", cfg.CurrencyCode)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30, cfg.QuoteRateLimit)
	require.Equal(t, 30*time.Second, cfg.QuoteRateWindow)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	require.InDelta(t, 0.25, cfg.Obs.SamplingRatio, 1e-9)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"CURRENCY_CODE": "DOLLARS"})
	require.ErrorContains(t, err, "CURRENCY_CODE")

	_, err = config.LoadForTests(map[string]string{"APP_ENV": "production", "ADMIN_TOKEN": "short"})
	require.ErrorContains(t, err, "ADMIN_TOKEN")

	_, err = config.LoadForTests(map[string]string{"OBS_TRACING_SAMPLING_RATIO": "2"})
	require.ErrorContains(t, err, "SAMPLING_RATIO")
}
