package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/guildadmin/internal/flagx"
	"github.com/dmitrijs2005/guildadmin/internal/timex"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape. Pointer fields distinguish "absent" from
// zero so a file only overrides what it names.
type fileConfig struct {
	APIBaseURL          *string         `json:"api_url" yaml:"api_url"`
	StoreBackend        *string         `json:"store" yaml:"store"`
	StorePath           *string         `json:"store_path" yaml:"store_path"`
	RedisAddr           *string         `json:"redis_addr" yaml:"redis_addr"`
	RequestTimeout      *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	RequestsPerSecond   *float64        `json:"requests_per_second" yaml:"requests_per_second"`
	StatusCheckInterval *timex.Duration `json:"status_check_interval" yaml:"status_check_interval"`
	LogLevel            *string         `json:"log_level" yaml:"log_level"`
	LogFormat           *string         `json:"log_format" yaml:"log_format"`
	BrowserCommand      *string         `json:"browser" yaml:"browser"`
}

// parseFile overlays cfg with the file named by -c/--config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != nil {
		cfg.APIBaseURL = *fc.APIBaseURL
	}
	if fc.StoreBackend != nil {
		cfg.StoreBackend = *fc.StoreBackend
	}
	if fc.StorePath != nil {
		cfg.StorePath = *fc.StorePath
	}
	if fc.RedisAddr != nil {
		cfg.RedisAddr = *fc.RedisAddr
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *fc.RequestsPerSecond
	}
	if fc.StatusCheckInterval != nil {
		cfg.StatusCheckInterval = fc.StatusCheckInterval.Duration
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogFormat != nil {
		cfg.LogFormat = *fc.LogFormat
	}
	if fc.BrowserCommand != nil {
		cfg.BrowserCommand = *fc.BrowserCommand
	}
}
