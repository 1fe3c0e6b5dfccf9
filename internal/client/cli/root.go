package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophprofile/internal/client/services"
)

// Root opens the profile when a session is stored, the login screen
// otherwise, and then runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) error {
	a.println("Welcome to gpcli (type 'help' for commands)")

	if err := a.Start(ctx); err != nil {
		return err
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// Start picks the first screen from the stored session.
func (a *App) Start(ctx context.Context) error {
	s, err := a.svc.Auth.Session(ctx)
	switch {
	case errors.Is(err, services.ErrNoSession):
		return a.navigate(ctx, ScreenLogin)
	case err != nil:
		return err
	}

	a.userName = s.Username
	return a.navigate(ctx, ScreenProfile)
}
