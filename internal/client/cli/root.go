package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.email)
}

// Root restores the stored session, if any, and runs the REPL until the
// user exits or input ends.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Notes CLI (type 'help' for commands)")

	if a.authService.LoggedIn(ctx) {
		if err := a.restore(ctx); err != nil {
			a.logger.Warn(ctx, "could not restore session", "error", err)
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) restore(ctx context.Context) error {
	boot, err := a.authService.Bootstrap(ctx)
	if err != nil {
		return err
	}
	a.setSession(boot.User.Email)
	fmt.Fprintf(a.out, "Welcome back, %s\n", boot.User.Email)
	return nil
}
