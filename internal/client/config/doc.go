// Package config loads runtime configuration for the notes CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, loaded into the environment,
//     and the NOTES_API_BASE_URL, NOTES_LOG_LEVEL and NOTES_DB_PATH variables.
//  3. Optional config file (see parseFile) selected via flags: -c or -config.
//     YAML when the name ends in .yaml/.yml, JSON otherwise.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-d int      autosave debounce (milliseconds)
//	-db string  SQLite database path
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so values can be either strings like
// "600ms" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "debounce": "600ms",
//	  "settle": "1200ms",
//	  "db_path": "notes.db",
//	  "request_timeout": "15s",
//	  "log_level": "info",
//	  "log_backend": "slog"
//	}
package config
