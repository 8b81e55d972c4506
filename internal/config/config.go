// Package config provides centralized configuration for the info-agent server.
package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server reads from the environment.
type Config struct {
	// HTTP transport
	HTTPAddr string

	// Outbound API clients
	HTTPTimeout time.Duration

	// Provider credentials. Weather (Open-Meteo), currency (open.er-api.com)
	// and prayer times (AlAdhan) are keyless.
	NewsDataAPIKey string
	TavilyAPIKey   string

	// Logging
	LogLevel string
}

var (
	once   sync.Once
	config *Config
)

// Load initializes the configuration from environment variables. The first
// call wins; subsequent calls return the same instance.
func Load() *Config {
	once.Do(func() {
		v := viper.New()

		v.SetDefault("http_addr", ":8000")
		v.SetDefault("http_timeout", "15s")
		v.SetDefault("log_level", "info")

		v.AutomaticEnv()

		config = &Config{
			HTTPAddr:       v.GetString("http_addr"),
			HTTPTimeout:    v.GetDuration("http_timeout"),
			NewsDataAPIKey: v.GetString("newsdata_api_key"),
			TavilyAPIKey:   v.GetString("tavily_api_key"),
			LogLevel:       v.GetString("log_level"),
		}
	})

	return config
}

// MissingKeys lists env keys for providers that will refuse to run without
// credentials. The server still starts; only the affected tools degrade.
func (c *Config) MissingKeys() []string {
	var missing []string
	if c.NewsDataAPIKey == "" {
		missing = append(missing, "NEWSDATA_API_KEY")
	}
	if c.TavilyAPIKey == "" {
		missing = append(missing, "TAVILY_API_KEY")
	}
	return missing
}
