// Package config loads runtime configuration for the clipshare CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed CLIPSHARE_, optionally loaded from the
//     file named by -env-file or from ./.env.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string     address:port of the relay gRPC endpoint
//	-i int        online status check interval (seconds)
//	-db string    path of the local SQLite cache
//	-t duration   per-request timeout
//	-l string     log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "s3": {"region": "eu-west-1", "endpoint": "http://localhost:9000", "use_path_style": true}
//	}
package config
