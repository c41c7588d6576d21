// Package services contains application services for the notes client.
// This file defines the authentication service: register, login, logout and
// the post-login bootstrap, with credentials kept in the token store.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/tokens"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// ErrNotLoggedIn is returned when an operation needs stored credentials and
// there are none.
var ErrNotLoggedIn = errors.New("not logged in")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register/Login: authenticate against the server and persist the
//     returned token pair.
//   - Logout: forget the stored credentials. The server is not contacted.
//   - Bootstrap: fetch the landing data for the current session.
//   - LoggedIn: report whether an access token is stored.
//   - Claims: decode the stored access token.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Logout(ctx context.Context)
	Bootstrap(ctx context.Context) (*client.Bootstrap, error)
	LoggedIn(ctx context.Context) bool
	Claims(ctx context.Context) (tokens.Claims, error)
}

type authService struct {
	client client.Client
	store  tokens.Store
	logger logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// token store.
func NewAuthService(c client.Client, store tokens.Store, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{client: c, store: store, logger: logger}
}

func (a *authService) Register(ctx context.Context, email, password string) (*client.AuthResponse, error) {
	resp, err := a.client.Register(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	a.remember(ctx, resp)
	return resp, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (*client.AuthResponse, error) {
	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	a.remember(ctx, resp)
	return resp, nil
}

func (a *authService) remember(ctx context.Context, resp *client.AuthResponse) {
	a.store.SetTokens(ctx, resp.Tokens.Access, resp.Tokens.Refresh)
	a.logger.Info(ctx, "signed in", "user_id", resp.User.ID)
}

func (a *authService) Logout(ctx context.Context) {
	a.store.Clear(ctx)
	a.logger.Info(ctx, "signed out")
}

func (a *authService) Bootstrap(ctx context.Context) (*client.Bootstrap, error) {
	if !a.LoggedIn(ctx) {
		return nil, ErrNotLoggedIn
	}
	return a.client.Bootstrap(ctx)
}

func (a *authService) LoggedIn(ctx context.Context) bool {
	return a.store.Access(ctx) != ""
}

func (a *authService) Claims(ctx context.Context) (tokens.Claims, error) {
	access := a.store.Access(ctx)
	if access == "" {
		return tokens.Claims{}, ErrNotLoggedIn
	}
	return tokens.Inspect(access)
}
