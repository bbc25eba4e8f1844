// Package rest talks HTTP to the platform API: request building, retries,
// rate-limit handling, response decoding and the CDN URL surface.
package rest

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config carries the transport settings. Zero values are filled by the env
// defaults below; a Config built by hand only needs Token.
type Config struct {
	Token      string        `env:"SNOWCORD_TOKEN"`
	BaseURL    string        `env:"SNOWCORD_API_BASE_URL,default=https://chat.snowcord.dev/api/v9"`
	CDNBaseURL string        `env:"SNOWCORD_CDN_BASE_URL,default=https://cdn.snowcord.dev"`
	Timeout    time.Duration `env:"SNOWCORD_HTTP_TIMEOUT,default=30s"`
	MaxRetries uint64        `env:"SNOWCORD_MAX_RETRIES,default=4"`
	UserAgent  string        `env:"SNOWCORD_USER_AGENT,default=SnowcordBot (https://github.com/snowcord/snowcord, 0.1)"`
}

// ConfigFromEnv reads the transport settings from SNOWCORD_* environment
// variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("rest: reading config from environment: %w", err)
	}

	return cfg, nil
}

// withDefaults fills unset fields with the documented env defaults, so a
// hand-built Config behaves the same as an env-decoded one.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "https://chat.snowcord.dev/api/v9"
	}

	if c.CDNBaseURL == "" {
		c.CDNBaseURL = "https://cdn.snowcord.dev"
	}

	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}

	if c.MaxRetries == 0 {
		c.MaxRetries = 4
	}

	if c.UserAgent == "" {
		c.UserAgent = "SnowcordBot (https://github.com/snowcord/snowcord, 0.1)"
	}

	return c
}
