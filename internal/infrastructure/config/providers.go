package config

// ProvidersConfig holds the routing provider endpoints
type ProvidersConfig struct {
	Transit ProviderEndpoint `mapstructure:"transit"`
	Walk    ProviderEndpoint `mapstructure:"walk"`
}

// ProviderEndpoint configures one black-box routing endpoint
type ProviderEndpoint struct {
	// Base URL of the provider service
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Maximum requests per second
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"min=0"`
}
