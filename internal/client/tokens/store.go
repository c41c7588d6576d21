// Package tokens keeps the access and refresh tokens of the current session.
//
// A Store never fails: when no persistence backend is available, or the
// backend errors, reads return "" and writes do nothing. Backend errors are
// logged.
package tokens

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

const (
	AccessKey  = "access_token"
	RefreshKey = "refresh_token"
)

// Credentials is the token pair of a session. An empty Refresh means no
// refresh token was issued.
type Credentials struct {
	Access  string
	Refresh string
}

// Store is the credential storage contract shared with the api package.
type Store interface {
	Access(ctx context.Context) string
	Refresh(ctx context.Context) string
	SetTokens(ctx context.Context, access, refresh string)
	Clear(ctx context.Context)
}

// Backend is the key/value medium a PersistentStore writes to.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// PersistentStore keeps credentials in a Backend so they survive restarts.
type PersistentStore struct {
	backend Backend
	db      *sql.DB
	logger  logging.Logger
}

// NewStore returns a store over backend. A nil backend yields a store whose
// operations are no-ops.
func NewStore(backend Backend, logger logging.Logger) *PersistentStore {
	if logger == nil {
		logger = logging.Nop()
	}
	return &PersistentStore{backend: backend, logger: logger}
}

// NewSQLiteStore returns a store over the metadata table of db. Token pairs
// are written in a single transaction.
func NewSQLiteStore(db *sql.DB, logger logging.Logger) *PersistentStore {
	s := NewStore(metadata.NewSQLiteRepository(db), logger)
	s.db = db
	return s
}

// Available reports whether the store has a persistence medium.
func (s *PersistentStore) Available() bool {
	return s.backend != nil
}

func (s *PersistentStore) Access(ctx context.Context) string {
	return s.get(ctx, AccessKey)
}

func (s *PersistentStore) Refresh(ctx context.Context) string {
	return s.get(ctx, RefreshKey)
}

// Credentials returns both stored tokens.
func (s *PersistentStore) Credentials(ctx context.Context) Credentials {
	return Credentials{Access: s.Access(ctx), Refresh: s.Refresh(ctx)}
}

// SetTokens stores access, and refresh when it is not empty. An empty
// refresh keeps the stored one.
func (s *PersistentStore) SetTokens(ctx context.Context, access, refresh string) {
	if !s.Available() {
		return
	}

	write := func(ctx context.Context, b Backend) error {
		if err := b.Set(ctx, AccessKey, []byte(access)); err != nil {
			return err
		}
		if refresh != "" {
			return b.Set(ctx, RefreshKey, []byte(refresh))
		}
		return nil
	}

	var err error
	if s.db != nil {
		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return write(ctx, metadata.NewSQLiteRepository(tx))
		})
	} else {
		err = write(ctx, s.backend)
	}
	if err != nil {
		s.logger.Error(ctx, "failed to store tokens", "error", err)
	}
}

func (s *PersistentStore) Clear(ctx context.Context) {
	if !s.Available() {
		return
	}
	for _, k := range []string{AccessKey, RefreshKey} {
		if err := s.backend.Delete(ctx, k); err != nil {
			s.logger.Error(ctx, "failed to clear token", "key", k, "error", err)
		}
	}
}

func (s *PersistentStore) get(ctx context.Context, key string) string {
	if !s.Available() {
		return ""
	}
	v, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Error(ctx, "failed to read token", "key", key, "error", err)
		return ""
	}
	return string(v)
}
