// Package config loads songrater's settings.
//
// # Sources
//
// Settings are resolved in this order, later sources winning:
//
//  1. Built-in defaults (see Defaults)
//  2. TOML file, default ~/.config/songrater/config.toml (optional)
//  3. A dotenv file named by env_file, default ./.env (optional; never
//     overrides variables that are already set)
//  4. Environment variables SONGRATER_API_URL and SONGRATER_LOG_LEVEL
//
// # File Format
//
//	api_url         = "http://127.0.0.1:8000"
//	request_timeout = "5s"
//	log_file        = "~/.local/state/songrater/songrater.log"
//	log_level       = "info"    # debug, info, warn, error
//	poll_interval   = "0s"      # 0 disables background refresh
//	env_file        = ".env"
//
// Blank values fall back to defaults and paths beginning with ~ expand to the
// user's home directory. Unparseable TOML or durations are fatal: Load
// returns an error mentioning "parse config".
package config
