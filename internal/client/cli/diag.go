package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docproc/internal/buildinfo"
	"github.com/dmitrijs2005/docproc/internal/client/services"
)

var diagActions = []string{
	services.ActionFetchDocuments,
	services.ActionFetchDocument,
	services.ActionUploadDocument,
	services.ActionProcessDocument,
	services.ActionSaveField,
	services.ActionFetchStats,
}

// Diag prints connection settings, session state, the last request of each
// store action and the client's request metrics. It works without a session.
func (a *App) Diag(ctx context.Context) error {
	snap := a.session.Snapshot()

	tw := newTable(a.out)
	fmt.Fprintf(tw, "Version\t%s\n", buildinfo.Version())
	fmt.Fprintf(tw, "Server\t%s\n", a.config.ServerBaseURL)
	fmt.Fprintf(tw, "Mode\t%s\n", orDash(string(a.getMode())))
	fmt.Fprintf(tw, "Auth flow\t%s\n", a.session.Flow())
	fmt.Fprintf(tw, "Session\t%s\n", snap.State)
	if exp, ok := a.session.ExpiresAt(); ok {
		fmt.Fprintf(tw, "Token expires\t%s\n", exp.Local().Format(time.DateTime))
	}
	fmt.Fprintf(tw, "Loading\t%s\n", yesNo(a.documents.Loading()))
	_ = tw.Flush()

	fmt.Fprintln(a.out)
	tw = newTable(a.out)
	fmt.Fprintln(tw, "ACTION\tSTATE\tREQUEST\tERROR")
	for _, name := range diagActions {
		st := a.documents.ActionStatus(name)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, st.State, orDash(st.RequestID), orDash(st.Error))
	}
	_ = tw.Flush()

	fmt.Fprintln(a.out)
	lines, err := a.metrics.Snapshot()
	if err != nil {
		a.logger.Error(ctx, "metrics snapshot", "error", err)
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "No requests recorded yet.")
		return nil
	}
	for _, l := range lines {
		fmt.Fprintln(a.out, l)
	}
	return nil
}
