package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   API base URL
//	-d int      autosave debounce in milliseconds
//	-db string  SQLite database path
//	-l string   log level (debug, info, warn, error)
//
// Other arguments are filtered out with flagx.FilterArgs so that -c/-config
// and flags of other components do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-db", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "API base URL")
	debounce := fs.Int("d", int(cfg.Debounce.Milliseconds()), "autosave debounce (in milliseconds)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Debounce = time.Duration(*debounce) * time.Millisecond
}
