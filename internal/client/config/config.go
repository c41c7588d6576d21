package config

import "time"

// Config holds runtime settings for the notes CLI.
//
// Fields:
//   - BaseURL: origin of the notes REST API.
//   - Debounce: pause after the last edit before an autosave starts.
//   - Settle: how long "saved" is shown before the status returns to idle.
//   - DBPath: SQLite file holding the stored credentials.
//   - RequestTimeout: per-request HTTP timeout.
//   - LogLevel, LogBackend: diagnostics verbosity and logger implementation
//     ("slog" or "zap").
type Config struct {
	BaseURL        string
	Debounce       time.Duration
	Settle         time.Duration
	DBPath         string
	RequestTimeout time.Duration
	LogLevel       string
	LogBackend     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8000"
	c.Debounce = 600 * time.Millisecond
	c.Settle = 1200 * time.Millisecond
	c.DBPath = "notes.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.LogBackend = "slog"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and a .env file), a config file and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
