package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvBaseURL  = "NOTES_API_BASE_URL"
	EnvLogLevel = "NOTES_LOG_LEVEL"
	EnvDBPath   = "NOTES_DB_PATH"
)

// parseEnv loads dotenv (if it exists) into the process environment and
// overlays cfg with the NOTES_* variables. Variables already set in the
// environment win over the file.
func parseEnv(cfg *Config, dotenv string) {
	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := godotenv.Load(dotenv); err != nil {
				panic(err)
			}
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
}
