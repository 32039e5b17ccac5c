// Package config loads runtime configuration for the journal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the journal HTTP API
//	-s string   path of the local SQLite state database
//	-t int      per-request timeout (seconds)
//
// # JSON schema
//
// Durations accept either strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:5000/api",
//	  "state_db_path": "journal.db",
//	  "request_timeout": "10s",
//	  "log_level": "warn"
//	}
package config
