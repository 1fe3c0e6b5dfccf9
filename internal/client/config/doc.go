// Package config loads runtime configuration for the gpcli client.
//
// Sources & precedence
//
//  1. Built-in defaults (the default= options of the env tags).
//  2. An optional .env file (see LoadEnvFile).
//  3. Environment variables prefixed with GPCLI_.
//  4. An optional JSON file selected with --config.
//  5. Command-line flags (see RegisterFlags and ApplyFlags).
//
// Later sources override earlier ones.
//
// # JSON schema
//
// Durations can be strings like "15s" or integer nanoseconds:
//
//	{
//	  "account_api_url": "https://apis.mavicsoft.com/endpoints/ccc-hr-25-f",
//	  "common_api_url": "https://apis.mavicsoft.com/endpoints/common",
//	  "request_timeout": "15s",
//	  "database_path": "gophprofile.db",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "metrics_file": ""
//	}
package config
