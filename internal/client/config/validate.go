package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidConfig = errors.New("invalid config")

// Validate checks that the values are usable and normalizes the base URL.
func (c *Config) Validate() error {
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api url %q", ErrInvalidConfig, c.APIBaseURL)
	}

	switch c.StoreBackend {
	case StoreSQLite:
		if c.StorePath == "" {
			return fmt.Errorf("%w: store path is empty", ErrInvalidConfig)
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis address is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.StoreBackend)
	}

	if c.RequestTimeout < 0 || c.RequestsPerSecond < 0 || c.StatusCheckInterval < 0 {
		return fmt.Errorf("%w: negative duration or rate", ErrInvalidConfig)
	}
	return nil
}
