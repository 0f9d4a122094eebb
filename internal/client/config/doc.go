// Package config loads runtime configuration for the fieldsync client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed with FIELDSYNC_, optionally read from a
//     dotenv file selected via -e or -env-file (process variables win over
//     the file).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   address of the remote service (host:port for grpc, base URL for rest)
//	-t string   transport: rest or grpc
//	-d string   local cache location (SQLite file or Pebble directory)
//	-s string   store backend: sqlite or pebble
//	-m string   initial connectivity mode: online, offline or unknown
//	-i int      online status check interval (seconds)
//	-l string   log level
//	-sync       replay pending records automatically on reconnect
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "https://fineract.example/fineract-provider/api/v1",
//	  "transport": "rest",
//	  "tenant": "default",
//	  "access_token": "...",
//	  "database_path": "data/fieldsync.db",
//	  "store_backend": "sqlite",
//	  "online_check_interval": "3s",
//	  "probe_attempts": 3,
//	  "auto_sync": true,
//	  "initial_mode": "unknown",
//	  "mirror_timeout": "5s",
//	  "page_size": 100,
//	  "log_level": "info"
//	}
package config
