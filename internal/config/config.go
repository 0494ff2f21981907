package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Version     string `envconfig:"VERSION" default:"dev"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Identity provider. When SupabaseJWTSecret is set tokens are verified
	// locally; otherwise every token is checked against SupabaseURL.
	SupabaseURL       string `envconfig:"SUPABASE_URL" default:""`
	SupabaseAnonKey   string `envconfig:"SUPABASE_ANON_KEY" default:""`
	SupabaseJWTSecret string `envconfig:"SUPABASE_JWT_SECRET" default:""`

	AutomationServiceURL string `envconfig:"AUTOMATION_SERVICE_URL" default:"http://localhost:8600"`
	ComposioAPIURL       string `envconfig:"COMPOSIO_API_URL" default:"https://backend.composio.dev/api/v2"`
	ComposioAPIKey       string `envconfig:"COMPOSIO_API_KEY" default:""`
	ServiceKeyHash       string `envconfig:"SERVICE_KEY_HASH" default:""`

	NATSURL      string `envconfig:"NATS_URL" default:""`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:""`

	AllowedOrigins     []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	WebsiteFetchTimeout time.Duration `envconfig:"WEBSITE_FETCH_TIMEOUT" default:"10s"`
	// ReaperInterval of zero disables the stale-posting reaper.
	ReaperInterval    time.Duration `envconfig:"REAPER_INTERVAL" default:"60s"`
	PostingStaleAfter time.Duration `envconfig:"POSTING_STALE_AFTER" default:"5m"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ReaperInterval < 0 {
		return fmt.Errorf("REAPER_INTERVAL must not be negative, got %s", c.ReaperInterval)
	}
	if c.PostingStaleAfter <= 0 {
		return fmt.Errorf("POSTING_STALE_AFTER must be positive, got %s", c.PostingStaleAfter)
	}
	if c.WebsiteFetchTimeout <= 0 {
		return fmt.Errorf("WEBSITE_FETCH_TIMEOUT must be positive, got %s", c.WebsiteFetchTimeout)
	}
	return nil
}

// IsProduction reports whether cookies should carry the Secure attribute.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
