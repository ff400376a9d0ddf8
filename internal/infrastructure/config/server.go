package config

import "time"

// ServerConfig holds the HTTP planning API configuration
type ServerConfig struct {
	// Listen address, e.g. ":8080"
	Address string `mapstructure:"address" validate:"required"`

	// Allowed CORS origins
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// Request handling timeouts
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}
