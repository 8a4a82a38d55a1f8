package config

import (
	"time"

	"github.com/dmitrijs2005/guildadmin/internal/flagx"
	"github.com/spf13/pflag"
)

// parseFlags populates cfg from command-line flags. Only flags defined here
// are considered; the rest of the command line is left to other components.
func parseFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("guildadmin", pflag.ContinueOnError)

	fs.StringVarP(&cfg.APIBaseURL, "api-url", "a", cfg.APIBaseURL, "backend base URL")
	fs.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "credential store backend (sqlite|redis)")
	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "SQLite file for the credential store")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "address of the Redis credential store")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")
	fs.Float64Var(&cfg.RequestsPerSecond, "rps", cfg.RequestsPerSecond, "outbound request rate limit (0 disables)")
	checkInterval := fs.IntP("check-interval", "i", int(cfg.StatusCheckInterval.Seconds()), "session status check interval in seconds (0 disables)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text|json)")
	fs.StringVar(&cfg.BrowserCommand, "browser", cfg.BrowserCommand, "command used to open the login URL")
	fs.StringP("config", "c", "", "path to config file")

	if err := fs.Parse(flagx.FilterArgs(args, fs)); err != nil {
		return err
	}

	if fs.Changed("check-interval") {
		cfg.StatusCheckInterval = time.Duration(*checkInterval) * time.Second
	}
	return nil
}
