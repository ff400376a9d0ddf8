package config

import (
	"fmt"
	"time"
)

// DatabaseConfig holds the store backing the segment-cost cache and saved
// trip plans. SQLite is the default; postgres is for shared deployments.
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// Full connection URL; takes precedence over the individual fields
	URL string `mapstructure:"url"`

	// Individual postgres fields, used when URL is empty
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// SQLite database file
	Path string `mapstructure:"path"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig tunes the postgres connection pool. SQLite ignores it.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the postgres connection string, preferring the full URL over
// the individual fields
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// SQLitePath returns the database file path, defaulting to in-memory
func (c *DatabaseConfig) SQLitePath() string {
	if c.Path == "" {
		return ":memory:"
	}
	return c.Path
}
