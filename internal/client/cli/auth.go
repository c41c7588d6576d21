package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/api"
	"github.com/dmitrijs2005/notekeeper/internal/client/client"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, string(password), nil
}

// Register prompts for an email and password, creates the account and
// starts a session for it.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	resp, err := a.authService.Register(ctx, email, password)
	if err != nil {
		fmt.Fprintln(a.out, "Registration failed:", describe(err))
		return err
	}

	a.setSession(resp.User.Email)
	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and starts a session. The landing hint from
// the server decides whether the notes list is shown right away.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	resp, err := a.authService.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintln(a.out, "Login unsuccessful:", describe(err))
		return err
	}

	a.setSession(resp.User.Email)
	fmt.Fprintf(a.out, "Logged in as %s\n", resp.User.Email)
	if resp.UI.HasNotes {
		return a.List(ctx, "")
	}
	fmt.Fprintln(a.out, "No notes yet, type 'new' to write one")
	return nil
}

// Logout forgets the stored credentials.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	a.setSession("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the session owner and when the access token expires.
func (a *App) WhoAmI(ctx context.Context) error {
	claims, err := a.authService.Claims(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", describe(err))
		return err
	}

	a.mu.Lock()
	email := a.email
	a.mu.Unlock()

	fmt.Fprintf(a.out, "%s (user id %s)\n", email, claims.UserID)
	if !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Access token expires %s\n", claims.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}

// describe turns an error into the text shown to the user.
func describe(err error) string {
	var reqErr *api.RequestError
	var transportErr *api.TransportError

	switch {
	case errors.Is(err, client.ErrNotFound):
		return "not found"
	case errors.As(err, &reqErr):
		return reqErr.Detail()
	case errors.As(err, &transportErr):
		return "server unreachable"
	default:
		return err.Error()
	}
}
