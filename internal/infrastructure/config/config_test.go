package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	t.Run("defaults validate cleanly", func(t *testing.T) {
		cfg := &Config{}
		SetDefaults(cfg)

		assert.NoError(t, ValidateConfig(cfg))
	})

	t.Run("failures are reported by config key", func(t *testing.T) {
		cfg := &Config{}
		SetDefaults(cfg)
		cfg.Database.Type = "mysql"
		cfg.Logging.Level = "noisy"

		err := ValidateConfig(cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.type")
		assert.Contains(t, err.Error(), "logging.level")
	})

	t.Run("file output requires a path", func(t *testing.T) {
		cfg := &Config{}
		SetDefaults(cfg)
		cfg.Logging.Output = "file"

		err := ValidateConfig(cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "logging.file_path")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	t.Run("url takes precedence", func(t *testing.T) {
		cfg := &DatabaseConfig{
			URL:  "postgresql://u:p@db:5432/tw",
			Host: "ignored",
		}

		assert.Equal(t, "postgresql://u:p@db:5432/tw", cfg.DSN())
	})

	t.Run("fields assemble a dsn", func(t *testing.T) {
		cfg := &DatabaseConfig{
			Host: "localhost", Port: 5432,
			User: "tw", Password: "secret", Name: "tripweaver",
			SSLMode: "disable",
		}

		assert.Equal(t,
			"host=localhost port=5432 user=tw password=secret dbname=tripweaver sslmode=disable",
			cfg.DSN())
	})

	t.Run("sqlite path defaults to in-memory", func(t *testing.T) {
		assert.Equal(t, ":memory:", (&DatabaseConfig{}).SQLitePath())
		assert.Equal(t, "trips.db", (&DatabaseConfig{Path: "trips.db"}).SQLitePath())
	})
}
