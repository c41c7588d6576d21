package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/notekeeper/internal/client/api"
	"github.com/dmitrijs2005/notekeeper/internal/client/apitest"
	"github.com/dmitrijs2005/notekeeper/internal/client/autosave"
	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/tokens"
	"github.com/jonboulle/clockwork"
)

type env struct {
	srv     *apitest.Server
	store   *tokens.MemoryStore
	client  client.Client
	clock   *clockwork.FakeClock
	expired atomic.Int32
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		srv:   apitest.NewServer(),
		store: tokens.NewMemoryStore(tokens.Credentials{}),
		clock: clockwork.NewFakeClock(),
	}
	t.Cleanup(e.srv.Close)

	c := api.New(e.srv.URL, e.store, api.WithSessionExpired(func(context.Context) { e.expired.Add(1) }))
	e.client = client.NewHTTPClient(c)
	return e
}

// login seeds a user and stores its tokens.
func (e *env) login(email string) {
	access, refresh := e.srv.SeedUser(email, "password123")
	e.store.SetTokens(context.Background(), access, refresh)
}

func (e *env) notes() NoteService {
	return NewNoteService(e.client, nil, autosave.WithClock(e.clock))
}
