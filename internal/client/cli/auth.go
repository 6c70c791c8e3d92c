package cli

import (
	"context"
	"fmt"
)

// Login asks for credentials and opens a session. A successful login
// triggers a sync right away so a fresh device fills up without waiting for
// the interval.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged in.")
	a.runner.TriggerNow()
	return nil
}

// Logout drops the session and the pull watermark. Local records stay.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
