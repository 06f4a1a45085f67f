package cli

import (
	"context"

	"github.com/dmitrijs2005/docassist/internal/client/guard"
	"github.com/dmitrijs2005/docassist/internal/common"
)

// getSimpleText, getPassword and getMultiline are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Register prompts for a name, email and password and creates an account.
// The new session is used right away.
func (a *App) Register(ctx context.Context) error {
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Register(ctx, fullName, email, string(password)); err != nil {
		return err
	}
	return a.signedIn(ctx)
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Login(ctx, email, string(password)); err != nil {
		return err
	}
	return a.signedIn(ctx)
}

func (a *App) signedIn(ctx context.Context) error {
	if err := a.auth.LoadCurrentUser(ctx); err != nil {
		return err
	}
	if u, ok := a.auth.User(); ok {
		a.printf("Welcome, %s!\n", u.FullName)
	}
	return a.enter(ctx, guard.PathDashboard)
}

// Logout forgets the session. Documents and chats are dropped by onEvent.
func (a *App) Logout(ctx context.Context) error {
	return a.auth.Logout(ctx)
}

// Me reloads and prints the signed-in identity.
func (a *App) Me(ctx context.Context) error {
	if err := a.auth.LoadCurrentUser(ctx); err != nil {
		return err
	}
	u, ok := a.auth.User()
	if !ok {
		a.printf("Not signed in.\n")
		return nil
	}
	a.printf("%s <%s>\n", bold.Sprint(u.FullName), u.Email)
	a.printf("id:      %s\n", u.ID)
	if !u.CreatedAt.IsZero() {
		a.printf("since:   %s\n", u.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
