// Package config loads runtime configuration for the timeline CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the gateway gRPC endpoint
//	-i int      online status check interval (seconds)
//	-d string   data directory for the local database
//	-p string   profile whose timeline is edited
//	-e string   people encoding: structured or sentinel
//	-u int      parallel media uploads
//	-l string   log level
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "data_dir": "/home/me/.gophtimeline",
//	  "profile": "self",
//	  "people_encoding": "sentinel",
//	  "upload_concurrency": 4,
//	  "search_debounce": "250ms",
//	  "log_level": "debug"
//	}
//
// An unknown people encoding falls back to structured.
package config
