// Package config loads runtime configuration for the users CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the users HTTP API
//	-f string   file the access token is cached in
//	-i int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8081/api/v1",
//	  "token_file": "/home/me/.localmart-users/token",
//	  "request_timeout": "10s"
//	}
package config
