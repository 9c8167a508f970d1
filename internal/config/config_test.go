package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khata/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 4, cfg.Numbering.FiscalStartMonth)
	assert.Equal(t, 1, cfg.Numbering.FiscalStartDay)
	assert.Equal(t, "same_region", cfg.Tax.MissingJurisdiction)
	assert.Equal(t, 10*time.Minute, cfg.Tax.RegionCacheTTL)
	assert.False(t, cfg.Posting.RequireTotalMatch)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KHATA_DB_DRIVER", "MEMORY")
	t.Setenv("KHATA_NUMBERING_FY_START_MONTH", "7")
	t.Setenv("KHATA_TAX_MISSING_JURISDICTION", "reject")
	t.Setenv("KHATA_POSTING_REQUIRE_TOTAL_MATCH", "true")
	t.Setenv("KHATA_CORS_ALLOWED_ORIGINS", "https://books.example.com, ,https://admin.example.com")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 7, cfg.Numbering.FiscalStartMonth)
	assert.Equal(t, "reject", cfg.Tax.MissingJurisdiction)
	assert.True(t, cfg.Posting.RequireTotalMatch)
	assert.Equal(t, []string{"https://books.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_InvalidSettings(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown driver", "KHATA_DB_DRIVER", "sqlite"},
		{"fiscal month", "KHATA_NUMBERING_FY_START_MONTH", "13"},
		{"fiscal day", "KHATA_NUMBERING_FY_START_DAY", "31"},
		{"timezone", "KHATA_NUMBERING_TIMEZONE", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_DSN(t *testing.T) {
	cfg := config.DBConfig{User: "u", Password: "p", Host: "db", Port: 5433, Name: "books", SSLMode: "require"}

	assert.Equal(t, "postgres://u:p@db:5433/books?sslmode=require", cfg.DSN())
}
