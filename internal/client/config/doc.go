// Package config loads runtime configuration for the GuildAdmin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then process environment
//     variables (see parseEnv).
//  3. Optional config file selected via -c or --config; .json and .jsonc
//     files may contain comments, .yaml/.yml files are decoded as YAML.
//  4. Command-line flags (see parseFlags), which override everything else.
//
// Supported flags
//
//	-a, --api-url string         backend base URL
//	    --store string           credential store backend: sqlite or redis
//	    --store-path string      SQLite file for the credential store
//	    --redis-addr string      host:port of the Redis credential store
//	    --timeout duration       per-request timeout
//	    --rps float              outbound request rate limit (0 disables)
//	-i, --check-interval int     session status check interval in seconds (0 disables)
//	    --log-level string       debug, info, warn or error
//	    --log-format string      text or json
//	    --browser string         command used to open the login URL
//
// # Environment
//
//	GUILDADMIN_API_URL, GUILDADMIN_STORE, GUILDADMIN_STORE_PATH,
//	GUILDADMIN_REDIS_ADDR, GUILDADMIN_LOG_LEVEL, GUILDADMIN_BROWSER
//
// # File schema
//
//	{
//	  "api_url": "http://localhost:3000",
//	  "store": "sqlite",
//	  "store_path": "guildadmin.db",
//	  "request_timeout": "15s",
//	  "status_check_interval": "1m"
//	}
package config
