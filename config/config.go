package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Prefix is prepended to every environment variable, e.g. FISHLOG_DATABASE_URL.
const Prefix = "FISHLOG"

// Config holds the fishlog service configuration.
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	HTTPPort    int    `envconfig:"HTTP_PORT" default:"5200"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Shared secret the gateway sends as a Bearer token
	GatewayToken   string   `envconfig:"GATEWAY_TOKEN"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	BodyLimitMB    int      `envconfig:"BODY_LIMIT_MB" default:"20"`

	// Cloudflare R2 for catch photos. Uploads are rejected when unset.
	R2AccountID       string `envconfig:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret string `envconfig:"R2_ACCESS_KEY_SECRET"`
	R2Bucket          string `envconfig:"R2_BUCKET"`
	CDNBaseURL        string `envconfig:"CDN_BASE_URL"`

	// Profile service; the angler sync worker is disabled without a URL
	SyncServiceURL   string `envconfig:"SYNC_SERVICE_URL"`
	SyncServiceToken string `envconfig:"SYNC_SERVICE_TOKEN"`

	RecalcInterval time.Duration `envconfig:"RECALC_INTERVAL" default:"24h"`
}

// New loads .env when present and parses FISHLOG_* variables.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️  No .env file found, reading environment variables directly")
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Int("port", cfg.HTTPPort).
		Str("log_level", cfg.LogLevel).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("r2_enabled", cfg.R2Enabled()).
		Bool("angler_sync_enabled", cfg.SyncEnabled()).
		Dur("recalc_interval", cfg.RecalcInterval).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a valid config that needs no environment.
func NewForTesting() *Config {
	return &Config{
		DatabaseURL:    "postgres://localhost/fishlog_test",
		HTTPPort:       5200,
		LogLevel:       "debug",
		GatewayToken:   "test-gateway-token",
		AllowedOrigins: []string{"http://localhost:3000"},
		BodyLimitMB:    20,
		RecalcInterval: time.Hour,
	}
}

func (c *Config) normalize() {
	origins := c.AllowedOrigins[:0]
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
	c.SyncServiceURL = strings.TrimRight(c.SyncServiceURL, "/")
}

// Validate reports every missing or out of range setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New(Prefix+"_DATABASE_URL is required"))
	}
	if c.GatewayToken == "" {
		errs = append(errs, errors.New(Prefix+"_GATEWAY_TOKEN is required"))
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP port %d", c.HTTPPort))
	}
	if c.RecalcInterval < time.Minute {
		errs = append(errs, fmt.Errorf("recalculation interval %s is shorter than a minute", c.RecalcInterval))
	}
	if c.BodyLimitMB < 1 {
		errs = append(errs, fmt.Errorf("invalid body limit %d MB", c.BodyLimitMB))
	}
	if c.R2AccountID != "" && (c.R2AccessKeyID == "" || c.R2AccessKeySecret == "" || c.R2Bucket == "") {
		errs = append(errs, errors.New("R2 needs an access key, secret and bucket"))
	}
	if c.SyncServiceURL != "" && c.SyncServiceToken == "" {
		errs = append(errs, errors.New(Prefix+"_SYNC_SERVICE_TOKEN is required when the sync service is set"))
	}
	return errors.Join(errs...)
}

func (c *Config) R2Enabled() bool { return c.R2AccountID != "" }

func (c *Config) SyncEnabled() bool { return c.SyncServiceURL != "" }

// GetHTTPAddr returns the HTTP listen address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// BodyLimit returns the request body limit in bytes.
func (c *Config) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}

func (c *Config) AllowedOriginsHeader() string {
	return strings.Join(c.AllowedOrigins, ",")
}
