package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docproc/internal/client/client"
	"github.com/dmitrijs2005/docproc/internal/client/services"
	"github.com/dmitrijs2005/docproc/internal/common"
)

// getSimpleText, getPassword and getYesNo are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

// Login is the login page. The token flow asks for a username, the legacy
// flow for an email. On failure the session's error banner is shown.
func (a *App) Login(ctx context.Context) error {
	var (
		c   services.Credentials
		err error
	)

	if a.session.Flow() == services.AuthFlowLegacy {
		c.Email, err = getSimpleText(a.reader, "Enter email", a.out)
	} else {
		c.Username, err = getSimpleText(a.reader, "Enter username", a.out)
	}
	if err != nil {
		return err
	}

	c.Password, err = getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(c.Password)

	err = a.session.Login(ctx, c)
	a.afterAuth(err)
	return err
}

// Register is the registration page: username, email and password, then the
// same sign-in as Login.
func (a *App) Register(ctx context.Context) error {
	var (
		c   services.Credentials
		err error
	)

	if c.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}
	if c.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if c.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}
	defer common.WipeByteArray(c.Password)

	err = a.session.Register(ctx, c)
	a.afterAuth(err)
	return err
}

func (a *App) afterAuth(err error) {
	if errors.Is(err, client.ErrUnavailable) {
		a.setMode(ModeOffline)
	}
	a.showSessionError()

	if !a.session.IsAuthenticated() {
		return
	}
	if err == nil {
		a.setMode(ModeOnline)
	}
	if u := a.session.User(); u != nil {
		fmt.Fprintf(a.out, "Logged in as %s\n", u.DisplayName())
	} else {
		fmt.Fprintln(a.out, "Logged in")
	}
}

// Logout clears the stored tokens and everything the document store holds.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.documents.Reset(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if !a.requireSession(ctx) {
		return services.ErrNotAuthenticated
	}

	if a.session.User() == nil {
		if err := a.session.RefreshProfile(ctx); err != nil {
			a.showSessionError()
			return err
		}
	}

	u := a.session.User()
	fmt.Fprintf(a.out, "Name:     %s\n", u.DisplayName())
	if u.Username != "" {
		fmt.Fprintf(a.out, "Username: %s\n", u.Username)
	}
	if u.Email != "" {
		fmt.Fprintf(a.out, "Email:    %s\n", u.Email)
	}
	if exp, ok := a.session.ExpiresAt(); ok {
		fmt.Fprintf(a.out, "Token expires: %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}

// requireSession guards protected commands. Without a token it runs the
// login page and reports whether that produced a session.
func (a *App) requireSession(ctx context.Context) bool {
	if a.session.IsAuthenticated() {
		return true
	}
	fmt.Fprintln(a.out, "Please log in first.")
	_ = a.Login(ctx)
	return a.session.IsAuthenticated()
}

// showSessionError prints the session's error banner once and clears it.
func (a *App) showSessionError() {
	if msg := a.session.Error(); msg != "" {
		fmt.Fprintln(a.out, "Error:", msg)
		a.session.ClearError()
	}
}
