package cli

import (
	"context"

	"github.com/dmitrijs2005/docassist/internal/client/guard"
)

// Go navigates to path. The guard may send the user somewhere else.
func (a *App) Go(ctx context.Context, path string) error {
	return a.enter(ctx, path)
}

// enter resolves path through the guard, makes the result the current route
// and renders its view.
func (a *App) enter(ctx context.Context, path string) error {
	target, params := a.guard.Resolve(ctx, path)
	a.setPath(target, params)

	switch {
	case target == guard.PathLogin:
		a.printf("Sign in with 'login' or create an account with 'register'.\n")
		return nil
	case target == guard.PathRegister:
		return a.Register(ctx)
	case target == guard.PathChat:
		return a.Sessions(ctx)
	case params["id"] != "":
		return a.Show(ctx, params["id"])
	default:
		return a.Documents(ctx)
	}
}
