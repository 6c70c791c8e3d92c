package cli

import (
	"context"
	"fmt"
)

// SyncNow runs a cycle in the foreground so the user sees the outcome
// immediately. The engine guard keeps a concurrent scheduled cycle from
// doubling the work.
func (a *App) SyncNow(ctx context.Context) error {
	res, err := a.engine.Sync(ctx)
	if err != nil {
		return err
	}
	if res.Skipped {
		fmt.Fprintf(a.out, "Sync skipped (%s).\n", res.SkipReason)
		return nil
	}
	fmt.Fprintf(a.out, "Synced: %d pushed, %d pulled", res.Pushed, res.Pulled)
	if res.Deduped > 0 {
		fmt.Fprintf(a.out, ", %d duplicates collapsed", res.Deduped)
	}
	fmt.Fprintln(a.out, ".")
	return nil
}

// Status prints connectivity, session and pending-change information.
func (a *App) Status(ctx context.Context) error {
	pending, err := a.runner.PendingCount(ctx)
	if err != nil {
		return err
	}

	conn := "offline"
	if a.runner.Online() {
		conn = "online"
	}
	session := "logged out"
	if a.isLoggedIn() {
		session = "logged in"
	}

	fmt.Fprintf(a.out, "%s, %s, %d pending change(s)\n", conn, session, pending)
	return nil
}

// statusLine is the compact prompt form of Status.
func (a *App) statusLine() string {
	pending, err := a.runner.PendingCount(context.Background())
	if err != nil {
		pending = 0
	}
	conn := "offline"
	if a.runner.Online() {
		conn = "online"
	}
	return fmt.Sprintf("%s | %d pending", conn, pending)
}
