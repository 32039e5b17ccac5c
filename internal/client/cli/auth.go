package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/dailyjournal/internal/client/client"
	"github.com/dmitrijs2005/dailyjournal/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for a display name, email and password and creates an
// account. On success the new account is signed in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Display name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Register(ctx, a.api, name, email, password); err != nil {
		return err
	}
	a.println("Account created. Signed in as", a.status())
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, a.api, email, password); err != nil {
		a.log.Info(ctx, "login failed", "error", err)
		return err
	}
	a.println("Signed in as", a.status())
	return nil
}

// Logout forgets the saved token. It stays valid on the server until expiry.
func (a *App) Logout(ctx context.Context) error {
	a.loggingOut.Store(true)
	defer a.loggingOut.Store(false)

	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out")
	return nil
}

// Reconnect retries restoring the saved session, e.g. after the server was
// unreachable at start-up.
func (a *App) Reconnect(ctx context.Context) error {
	if err := a.api.Ping(ctx); err != nil {
		return err
	}
	if a.isLoggedIn() {
		a.println("Already signed in as", a.status())
		return nil
	}
	a.restore(ctx)
	if !a.isLoggedIn() {
		a.println("Server is reachable. Use 'login' to sign in.")
	}
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	snap := a.session.Snapshot()
	if snap.Account == nil {
		return client.ErrUnauthorized
	}
	acc := snap.Account
	a.printf("%s <%s>\nid: %s\nfocus areas: %s\n", acc.DisplayName, acc.Email, acc.ID, strings.Join(acc.FocusAreas, ", "))
	return nil
}

// FocusAreas replaces the account's focus-area list.
func (a *App) FocusAreas(ctx context.Context) error {
	snap := a.session.Snapshot()
	if snap.Account == nil {
		return client.ErrUnauthorized
	}

	line, err := getSimpleText(a.reader,
		"Focus areas, comma separated (current: "+strings.Join(snap.Account.FocusAreas, ", ")+")", a.out)
	if err != nil {
		return err
	}

	acc, err := a.api.UpdateFocusAreas(ctx, SplitList(line))
	if err != nil {
		return err
	}
	a.session.SetAccount(snap.Generation, acc)
	a.println("Focus areas:", strings.Join(acc.FocusAreas, ", "))
	return nil
}
