package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/osa911/contactrelay/internal/logging"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment     string        `env:"ENV" envDefault:"development"`
	Port            string        `env:"PORT" envDefault:"3001"`
	SiteName        string        `env:"SITE_NAME" envDefault:"Intarvas"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"65536"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	TrustedProxies  []string      `env:"TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.1,::1"`

	// Client Configuration
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// Email Configuration
	ResendAPIKey string        `env:"RESEND_API_KEY"`
	ResendAPIURL string        `env:"RESEND_API_URL"`
	FromEmail    string        `env:"FROM_EMAIL" envDefault:"onboarding@resend.dev"`
	ToEmail      string        `env:"TO_EMAIL" envDefault:"your-email@example.com"`
	EmailTimeout time.Duration `env:"EMAIL_TIMEOUT" envDefault:"10s"`

	// Rate Limit Configuration
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"5"`
	GlobalRPS       int           `env:"GLOBAL_RPS" envDefault:"10"`
	GlobalBurst     int           `env:"GLOBAL_BURST" envDefault:"20"`

	// Logging Configuration
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7"`
	LogRequests   bool   `env:"LOG_REQUESTS" envDefault:"true"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"contactrelay"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	envLocations := []string{".env"}

	// If ENV is set, try to load that specific file first
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		// godotenv.Load never overwrites variables that are already set
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Set default log file if not set
	if cfg.LogFile == "" {
		if cfg.IsProduction() {
			cfg.LogFile = "/app/logs/api.log"
		} else {
			cfg.LogFile = "./logs/api.log"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the relay cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Port == "":
		return fmt.Errorf("%w: PORT must not be empty", logging.ErrInvalidConfig)
	case c.RateLimitMax <= 0:
		return fmt.Errorf("%w: RATE_LIMIT_MAX must be positive", logging.ErrInvalidConfig)
	case c.RateLimitWindow <= 0:
		return fmt.Errorf("%w: RATE_LIMIT_WINDOW must be positive", logging.ErrInvalidConfig)
	case c.GlobalRPS <= 0 || c.GlobalBurst <= 0:
		return fmt.Errorf("%w: GLOBAL_RPS and GLOBAL_BURST must be positive", logging.ErrInvalidConfig)
	case c.EmailTimeout <= 0:
		return fmt.Errorf("%w: EMAIL_TIMEOUT must be positive", logging.ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: MAX_BODY_BYTES must be positive", logging.ErrInvalidConfig)
	case c.FromEmail == "":
		return fmt.Errorf("%w: FROM_EMAIL must not be empty", logging.ErrInvalidConfig)
	case c.IsProduction() && (c.ToEmail == "" || c.ToEmail == "your-email@example.com"):
		return fmt.Errorf("%w: TO_EMAIL must be set in production", logging.ErrInvalidConfig)
	case c.IsProduction() && c.ResendAPIKey == "":
		return fmt.Errorf("%w: RESEND_API_KEY must be set in production", logging.ErrInvalidConfig)
	}
	return nil
}

// IsProduction reports whether the relay runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Logging returns the logger settings derived from this configuration
func (c *Config) Logging() *logging.Config {
	return &logging.Config{
		Level:      c.LogLevel,
		File:       c.LogFile,
		MaxSize:    c.LogMaxSize,
		MaxBackups: c.LogMaxBackups,
		MaxAge:     c.LogMaxAge,
		Console:    true,
	}
}
