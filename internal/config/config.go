package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Log       LogConfig
	CORS      CORSConfig
	Numbering NumberingConfig
	Tax       TaxConfig
	Posting   PostingConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DBConfig holds PostgreSQL connection settings. Driver "memory" keeps all data in process.
type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds bearer token verification settings.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NumberingConfig holds the calendar used for series reset epochs.
type NumberingConfig struct {
	Timezone         string `mapstructure:"timezone"`
	FiscalStartMonth int    `mapstructure:"fy_start_month"`
	FiscalStartDay   int    `mapstructure:"fy_start_day"`
}

// Location resolves Timezone.
func (n *NumberingConfig) Location() (*time.Location, error) {
	if n.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(n.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "numbering.timezone %q", n.Timezone)
	}
	return loc, nil
}

// TaxConfig holds tax split settings.
type TaxConfig struct {
	// MissingJurisdiction is same_region, cross_region or reject.
	MissingJurisdiction string        `mapstructure:"missing_jurisdiction"`
	RegionCacheTTL      time.Duration `mapstructure:"region_cache_ttl"`
}

// PostingConfig holds ledger posting settings.
type PostingConfig struct {
	RequireTotalMatch bool `mapstructure:"require_total_match"`
}

// Load reads configuration from environment variables with the KHATA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KHATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "khata")
	v.SetDefault("db.password", "khata_secret")
	v.SetDefault("db.name", "khata_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "khata")

	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("numbering.timezone", "UTC")
	v.SetDefault("numbering.fy_start_month", 4)
	v.SetDefault("numbering.fy_start_day", 1)

	v.SetDefault("tax.missing_jurisdiction", "same_region")
	v.SetDefault("tax.region_cache_ttl", "10m")

	v.SetDefault("posting.require_total_match", false)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "KHATA_SERVER_PORT",
		"server.read_timeout":         "KHATA_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "KHATA_SERVER_WRITE_TIMEOUT",
		"server.environment":          "KHATA_SERVER_ENVIRONMENT",
		"db.driver":                   "KHATA_DB_DRIVER",
		"db.host":                     "KHATA_DB_HOST",
		"db.port":                     "KHATA_DB_PORT",
		"db.user":                     "KHATA_DB_USER",
		"db.password":                 "KHATA_DB_PASSWORD",
		"db.name":                     "KHATA_DB_NAME",
		"db.sslmode":                  "KHATA_DB_SSLMODE",
		"db.max_open":                 "KHATA_DB_MAX_OPEN",
		"db.max_idle":                 "KHATA_DB_MAX_IDLE",
		"jwt.secret":                  "KHATA_JWT_SECRET",
		"jwt.issuer":                  "KHATA_JWT_ISSUER",
		"log.level":                   "KHATA_LOG_LEVEL",
		"log.format":                  "KHATA_LOG_FORMAT",
		"cors.allowed_origins":        "KHATA_CORS_ALLOWED_ORIGINS",
		"numbering.timezone":          "KHATA_NUMBERING_TIMEZONE",
		"numbering.fy_start_month":    "KHATA_NUMBERING_FY_START_MONTH",
		"numbering.fy_start_day":      "KHATA_NUMBERING_FY_START_DAY",
		"tax.missing_jurisdiction":    "KHATA_TAX_MISSING_JURISDICTION",
		"tax.region_cache_ttl":        "KHATA_TAX_REGION_CACHE_TTL",
		"posting.require_total_match": "KHATA_POSTING_REQUIRE_TOTAL_MATCH",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if KHATA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("KHATA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Driver:   strings.ToLower(v.GetString("db.driver")),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Numbering = NumberingConfig{
		Timezone:         v.GetString("numbering.timezone"),
		FiscalStartMonth: v.GetInt("numbering.fy_start_month"),
		FiscalStartDay:   v.GetInt("numbering.fy_start_day"),
	}
	cfg.Tax = TaxConfig{
		MissingJurisdiction: v.GetString("tax.missing_jurisdiction"),
		RegionCacheTTL:      v.GetDuration("tax.region_cache_ttl"),
	}
	cfg.Posting = PostingConfig{
		RequireTotalMatch: v.GetBool("posting.require_total_match"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return errors.Newf("db.driver %q must be %q or %q", c.DB.Driver, DriverPostgres, DriverMemory)
	}
	if c.Numbering.FiscalStartMonth < 1 || c.Numbering.FiscalStartMonth > 12 {
		return errors.Newf("numbering.fy_start_month %d must be between 1 and 12", c.Numbering.FiscalStartMonth)
	}
	if c.Numbering.FiscalStartDay < 1 || c.Numbering.FiscalStartDay > 28 {
		return errors.Newf("numbering.fy_start_day %d must be between 1 and 28", c.Numbering.FiscalStartDay)
	}
	if _, err := c.Numbering.Location(); err != nil {
		return err
	}
	return nil
}
