package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if !slices.Contains([]string{EnvProduction, EnvDevelopment, EnvTest}, c.App.Env) {
		return fmt.Errorf("app.env must be one of production, development, test (got %q)", c.App.Env)
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for storage driver %q", DriverPostgres)
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
		}
	case DriverBadger:
		if err := c.Badger.validate(); err != nil {
			return fmt.Errorf("badger: %w", err)
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q (got %q)", DriverPostgres, DriverBadger, c.Storage.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSec <= 0 {
			return fmt.Errorf("rate_limit.requests_per_sec must be > 0 (got %v)", c.RateLimit.RequestsPerSec)
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate_limit.burst must be > 0 (got %d)", c.RateLimit.Burst)
		}
	}

	if err := c.Client.validate(); err != nil {
		return fmt.Errorf("client: %w", err)
	}

	return nil
}

func (b *BadgerConfig) validate() error {
	if !b.InMemory && strings.TrimSpace(b.Path) == "" {
		return fmt.Errorf("path is required unless in_memory is set")
	}
	if b.GCDiscardRatio < 0 || b.GCDiscardRatio > 1 {
		return fmt.Errorf("gc_discard_ratio must be between 0 and 1 (got %v)", b.GCDiscardRatio)
	}
	return nil
}

func (l *LogConfig) validate() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("invalid level %q", l.Level)
	}
	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	return nil
}

func (c *ClientConfig) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL (got %q)", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", c.Timeout)
	}
	return nil
}
