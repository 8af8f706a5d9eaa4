package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docproc/internal/client/client"
)

func (a *App) getStatus() string {
	s := ""
	if u := a.session.User(); u != nil {
		s = u.DisplayName() + " "
	}
	if m := a.getMode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root restores or establishes the session, starts the connectivity watcher
// and blocks in the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to docproc CLI (type 'help' for commands)")

	if a.session.IsAuthenticated() {
		a.restoreSession(ctx)
	} else {
		_ = a.Login(ctx)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// restoreSession loads the profile for a token found on disk. A rejected
// token logs the user out and asks for credentials again.
func (a *App) restoreSession(ctx context.Context) {
	err := a.session.RefreshProfile(ctx)
	switch {
	case err == nil:
		a.setMode(ModeOnline)
		fmt.Fprintf(a.out, "Welcome back, %s\n", a.session.User().DisplayName())
	case errors.Is(err, client.ErrUnauthorized):
		a.session.Logout(ctx)
		a.documents.Reset(ctx)
		fmt.Fprintln(a.out, "Your session has expired, please log in again.")
		_ = a.Login(ctx)
	case errors.Is(err, client.ErrUnavailable):
		a.session.ClearError()
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, "Server unavailable, working from the local session.")
	default:
		a.showSessionError()
	}
}
