package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/client/api"
	"github.com/dmitrijs2005/notekeeper/internal/client/autosave"
	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/dmitrijs2005/notekeeper/internal/client/tokens"
	"github.com/dmitrijs2005/notekeeper/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	noteService services.NoteService
	logger      logging.Logger
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer

	mu       sync.Mutex
	loggedIn bool
	email    string
}

// NewApp opens the credential database and wires the services for cfg.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	a := newApp(cfg, tokens.NewSQLiteStore(db, logger), logger, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	return a, nil
}

func newApp(cfg *config.Config, store tokens.Store, logger logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	a := &App{config: cfg, logger: logger, reader: reader, out: out}

	apiClient := api.New(cfg.BaseURL, store,
		api.WithTransport(api.NewHTTPTransport(cfg.RequestTimeout)),
		api.WithLogger(logger.With("component", "api")),
		api.WithSessionExpired(a.sessionExpired),
	)
	notes := client.NewHTTPClient(apiClient)

	a.authService = services.NewAuthService(notes, store, logger)
	a.noteService = services.NewNoteService(notes, logger,
		autosave.WithDelay(cfg.Debounce),
		autosave.WithSettle(cfg.Settle),
	)
	return a
}

func (a *App) Run(ctx context.Context) {
	if a.db != nil {
		defer a.db.Close()
	}
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

func (a *App) setSession(email string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedIn = email != ""
	a.email = email
}

// sessionExpired is called by the API client after it dropped the stored
// credentials. It may run on an autosave goroutine.
func (a *App) sessionExpired(ctx context.Context) {
	a.mu.Lock()
	was := a.loggedIn
	a.loggedIn = false
	a.email = ""
	a.mu.Unlock()

	if was {
		fmt.Fprintln(a.out, "Session expired, please log in")
	}
}
