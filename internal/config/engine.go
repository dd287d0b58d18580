package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvEngineModel           = "TARIC_ENGINE_MODEL"
	EnvEngineAPIKey          = "TARIC_ENGINE_API_KEY"
	EnvEngineTemperature     = "TARIC_ENGINE_TEMPERATURE"
	EnvEngineTopP            = "TARIC_ENGINE_TOP_P"
	EnvEngineMaxOutputTokens = "TARIC_ENGINE_MAX_OUTPUT_TOKENS"
	EnvEngineTimeout         = "TARIC_ENGINE_TIMEOUT"
	EnvEngineRequestsPerMin  = "TARIC_ENGINE_REQUESTS_PER_MINUTE"
	EnvEngineBurst           = "TARIC_ENGINE_BURST"
)

// EngineConfig holds reasoning engine parameters. The API key is supplied
// exclusively through TARIC_ENGINE_API_KEY so it never lands in a config
// file; a missing key is not a startup error, the engine reports itself
// unconfigured on first use instead.
type EngineConfig struct {
	Model             string  `toml:"model"`
	APIKey            string  `toml:"-"`
	Temperature       float64 `toml:"temperature"`
	TopP              float64 `toml:"top_p"`
	MaxOutputTokens   int     `toml:"max_output_tokens"`
	Timeout           string  `toml:"timeout"`
	RequestsPerMinute int     `toml:"requests_per_minute"`
	Burst             int     `toml:"burst"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *EngineConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.TopP != 0 {
		c.TopP = overlay.TopP
	}
	if overlay.MaxOutputTokens != 0 {
		c.MaxOutputTokens = overlay.MaxOutputTokens
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.RequestsPerMinute != 0 {
		c.RequestsPerMinute = overlay.RequestsPerMinute
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.2
	}
	if c.TopP == 0 {
		c.TopP = 0.95
	}
	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = 2048
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = 30
	}
	if c.Burst == 0 {
		c.Burst = 5
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEngineModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvEngineAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvEngineTemperature); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = t
		}
	}
	if v := os.Getenv(EnvEngineTopP); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.TopP = t
		}
	}
	if v := os.Getenv(EnvEngineMaxOutputTokens); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxOutputTokens = n
		}
	}
	if v := os.Getenv(EnvEngineTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvEngineRequestsPerMin); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RequestsPerMinute = n
		}
	}
	if v := os.Getenv(EnvEngineBurst); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Burst = n
		}
	}
}

func (c *EngineConfig) validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("invalid temperature: %v", c.Temperature)
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return fmt.Errorf("invalid top_p: %v", c.TopP)
	}
	if c.MaxOutputTokens < 1 {
		return fmt.Errorf("invalid max_output_tokens: %d", c.MaxOutputTokens)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.RequestsPerMinute < 1 {
		return fmt.Errorf("invalid requests_per_minute: %d", c.RequestsPerMinute)
	}
	if c.Burst < 1 {
		return fmt.Errorf("invalid burst: %d", c.Burst)
	}
	return nil
}
