// Package config loads runtime configuration for the projecthub CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, selected with the CLI's --config flag.
//  3. PROJECTHUB_SERVER_URL and PROJECTHUB_TOKEN_FILE environment variables.
//
// Command-line flags of the CLI override all of the above.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the request timeout, so values can
// be either strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "token_file": "/home/me/.projecthub/token",
//	  "request_timeout": "10s"
//	}
package config
