package config

import (
	"os"
	"time"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds runtime settings for the GuildAdmin CLI.
type Config struct {
	// APIBaseURL is the backend root, e.g. http://localhost:3000.
	APIBaseURL string

	// StoreBackend selects where credentials persist: StoreSQLite or StoreRedis.
	StoreBackend string
	StorePath    string
	RedisAddr    string

	RequestTimeout    time.Duration
	RequestsPerSecond float64

	// StatusCheckInterval drives the background session check; zero disables it.
	StatusCheckInterval time.Duration

	LogLevel  string
	LogFormat string

	// BrowserCommand, when set, is split on spaces and run with the login URL
	// appended after its own arguments, e.g. "firefox --new-tab".
	BrowserCommand string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000"
	c.StoreBackend = StoreSQLite
	c.StorePath = "guildadmin.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RequestTimeout = 15 * time.Second
	c.RequestsPerSecond = 0
	c.StatusCheckInterval = time.Minute
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.BrowserCommand = ""
}

// LoadConfig builds a Config from defaults, environment, an optional file and
// os.Args, in that order. Later sources take precedence.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
