// Package config loads runtime configuration for the TriVision CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c / -config or $TRIVISION_CONFIG.
//  3. The GEMINI_API_KEY environment variable.
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-s string   store DSN: path, sqlite:PATH, postgres://..., s3://bucket/prefix, memory:
//	-q int      max bytes per stored value, 0 disables the quota
//	-k string   Gemini API key
//	-m string   Gemini model name
//	-t int      classification timeout (seconds)
//	-d int      artificial auth latency (milliseconds)
//	-n int      history capacity
//	-u string   camera snapshot URL
//	-l string   log level (debug, info, warn, error)
//	-e string   S3 endpoint override (MinIO etc.)
//	-g string   S3 region
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "store_dsn": "sqlite:trivision.db",
//	  "gemini_api_key": "...",
//	  "classify_timeout": "30s",
//	  "auth_latency": "800ms",
//	  "history_capacity": 20,
//	  "camera_url": "http://127.0.0.1:8080/?action=snapshot"
//	}
package config
