package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9001")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("NEWSDATA_API_KEY", "nd-key")
	t.Setenv("TAVILY_API_KEY", "tv-key")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, ":9001", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "nd-key", cfg.NewsDataAPIKey)
	assert.Equal(t, "tv-key", cfg.TavilyAPIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.MissingKeys())

	// Load is a process-wide singleton.
	assert.Same(t, cfg, Load())
}

func TestMissingKeys(t *testing.T) {
	cfg := &Config{}
	assert.ElementsMatch(t, []string{"NEWSDATA_API_KEY", "TAVILY_API_KEY"}, cfg.MissingKeys())

	cfg.NewsDataAPIKey = "set"
	assert.Equal(t, []string{"TAVILY_API_KEY"}, cfg.MissingKeys())
}
