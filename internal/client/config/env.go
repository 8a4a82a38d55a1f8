package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	envAPIURL    = "GUILDADMIN_API_URL"
	envStore     = "GUILDADMIN_STORE"
	envStorePath = "GUILDADMIN_STORE_PATH"
	envRedisAddr = "GUILDADMIN_REDIS_ADDR"
	envLogLevel  = "GUILDADMIN_LOG_LEVEL"
	envBrowser   = "GUILDADMIN_BROWSER"
)

// parseEnv overlays cfg with environment variables. A .env file in the
// working directory is loaded first; it never overrides variables that are
// already set.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setFromEnv(&cfg.APIBaseURL, envAPIURL)
	setFromEnv(&cfg.StoreBackend, envStore)
	setFromEnv(&cfg.StorePath, envStorePath)
	setFromEnv(&cfg.RedisAddr, envRedisAddr)
	setFromEnv(&cfg.LogLevel, envLogLevel)
	setFromEnv(&cfg.BrowserCommand, envBrowser)
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
