// Package config reads the capital settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/etnz/capital"
	"github.com/etnz/capital/logging"
	"github.com/joho/godotenv"
)

// Backends lists the supported storage backends.
var Backends = []string{"file", "sqlite", "memory"}

type Config struct {
	// Storage
	Backend    string `env:"CAPITAL_BACKEND" envDefault:"file"`
	DataDir    string `env:"CAPITAL_DATA_DIR" envDefault:".capital"`
	SQLitePath string `env:"CAPITAL_SQLITE_PATH" envDefault:".capital/capital.db"`

	// Book
	Owner       string `env:"CAPITAL_OWNER" envDefault:"default"`
	Currency    string `env:"CAPITAL_CURRENCY" envDefault:"EUR"`
	StableAsset string `env:"CAPITAL_STABLE_ASSET" envDefault:"USDT"`

	// HTTP Server
	HTTPAddr string `env:"CAPITAL_HTTP_ADDR" envDefault:":8080"`

	// AMQP, events are only published when the URL is set.
	AMQPURL      string `env:"CAPITAL_AMQP_URL"`
	AMQPExchange string `env:"CAPITAL_AMQP_EXCHANGE" envDefault:"capital"`
	AMQPQueue    string `env:"CAPITAL_AMQP_QUEUE" envDefault:"capital.events"`

	// Assistant
	GeminiModel string `env:"CAPITAL_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	Log logging.Config `envPrefix:"CAPITAL_LOG_"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}
	cfg.Currency = strings.ToUpper(cfg.Currency)
	return cfg, nil
}

// Units returns the book units the configuration designates.
func (c *Config) Units() capital.Units {
	return capital.Units{Base: c.Currency, Stable: c.StableAsset}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(Backends, c.Backend) {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, Backends))
	}
	if c.Backend == "file" && c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty when using file backend")
	}
	if c.Backend == "sqlite" && c.SQLitePath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.Owner == "" {
		errors = append(errors, "owner cannot be empty")
	}
	if err := c.Units().Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid units: %v", err))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch c.Log.Encoding {
	case "", "json", "console":
	default:
		errors = append(errors, fmt.Sprintf("invalid log encoding '%s': must be json or console", c.Log.Encoding))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}
